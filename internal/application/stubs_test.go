package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

// logStoreStub scripts workout log persistence behavior for service tests.
type logStoreStub struct {
	mu sync.Mutex

	logs map[string]persistence.WorkoutLog

	createErr   error
	createCalls int
	// createErrOnce makes only the first create fail, for conflict races.
	createErrOnce bool

	findErr error
	// hideUntilCreate makes key lookups miss until a create was attempted,
	// simulating a racing writer that commits between lookup and create.
	hideUntilCreate bool
	// findStarted/findProceed gate key lookups so a test can hold a
	// resolution in flight while other callers arrive.
	findStarted chan struct{}
	findProceed chan struct{}

	getErr     error
	updateErr  error
	updated    []persistence.WorkoutLogPatch
	updatedIDs []string
}

func newLogStoreStub() *logStoreStub {
	return &logStoreStub{logs: make(map[string]persistence.WorkoutLog)}
}

func (s *logStoreStub) put(log persistence.WorkoutLog) {
	s.mu.Lock()
	s.logs[log.ID] = log
	s.mu.Unlock()
}

func (s *logStoreStub) CreateWorkoutLog(ctx context.Context, log persistence.WorkoutLog) (persistence.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		err := s.createErr
		if s.createErrOnce {
			s.createErr = nil
		}
		return persistence.WorkoutLog{}, err
	}
	s.logs[log.ID] = log
	return log, nil
}

func (s *logStoreStub) GetWorkoutLog(ctx context.Context, id string) (persistence.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return persistence.WorkoutLog{}, s.getErr
	}
	log, ok := s.logs[id]
	if !ok {
		return persistence.WorkoutLog{}, persistence.ErrNotFound
	}
	return log, nil
}

func (s *logStoreStub) FindWorkoutLogByKey(ctx context.Context, key persistence.WorkoutLogKey) (persistence.WorkoutLog, error) {
	if s.findStarted != nil {
		s.findStarted <- struct{}{}
		<-s.findProceed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return persistence.WorkoutLog{}, s.findErr
	}
	if s.hideUntilCreate && s.createCalls == 0 {
		return persistence.WorkoutLog{}, persistence.ErrNotFound
	}
	for _, log := range s.logs {
		if log.OwnerID == key.OwnerID && log.ProgramID != nil && *log.ProgramID == key.ProgramID &&
			log.WeekIndex != nil && *log.WeekIndex == key.WeekIndex &&
			log.DayIndex != nil && *log.DayIndex == key.DayIndex {
			return log, nil
		}
	}
	return persistence.WorkoutLog{}, persistence.ErrNotFound
}

func (s *logStoreStub) FindDraftWorkoutLog(ctx context.Context, ownerID string) (persistence.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return persistence.WorkoutLog{}, s.findErr
	}
	for _, log := range s.logs {
		if log.OwnerID == ownerID && log.ProgramID == nil && log.IsDraft {
			return log, nil
		}
	}
	return persistence.WorkoutLog{}, persistence.ErrNotFound
}

func (s *logStoreStub) UpdateWorkoutLog(ctx context.Context, id string, patch persistence.WorkoutLogPatch) (persistence.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return persistence.WorkoutLog{}, s.updateErr
	}
	log, ok := s.logs[id]
	if !ok {
		return persistence.WorkoutLog{}, persistence.ErrNotFound
	}
	if patch.Name != nil {
		log.Name = *patch.Name
	}
	if patch.Notes != nil {
		log.Notes = *patch.Notes
	}
	if patch.DurationMinutes != nil {
		log.DurationMinutes = patch.DurationMinutes
	}
	if patch.IsDraft != nil {
		log.IsDraft = *patch.IsDraft
	}
	if patch.IsFinished != nil {
		log.IsFinished = *patch.IsFinished
	}
	if patch.CompletedAt != nil {
		log.CompletedAt = patch.CompletedAt
	}
	s.logs[id] = log
	s.updated = append(s.updated, patch)
	s.updatedIDs = append(s.updatedIDs, id)
	return log, nil
}

// exerciseStoreStub records operations in call order and scripts failures.
type exerciseStoreStub struct {
	mu sync.Mutex

	entries map[string]workoutlog.Entry
	calls   []string

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	orderErr  error

	// racingInsert is stored when insertErr fires, simulating the concurrent
	// writer whose committed row caused the collision.
	racingInsert []workoutlog.Entry
}

func newExerciseStoreStub() *exerciseStoreStub {
	return &exerciseStoreStub{entries: make(map[string]workoutlog.Entry)}
}

func (s *exerciseStoreStub) put(entry workoutlog.Entry) {
	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()
}

func (s *exerciseStoreStub) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *exerciseStoreStub) ListExercises(ctx context.Context, workoutLogID string) ([]workoutlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []workoutlog.Entry
	for _, entry := range s.entries {
		if entry.WorkoutLogID == workoutLogID {
			out = append(out, entry.Clone())
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *exerciseStoreStub) InsertExercises(ctx context.Context, entries []workoutlog.Entry) ([]workoutlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("insert:%d", len(entries)))
	if s.insertErr != nil {
		for _, entry := range s.racingInsert {
			s.entries[entry.ID] = entry.Clone()
		}
		return nil, s.insertErr
	}
	for _, entry := range entries {
		s.entries[entry.ID] = entry.Clone()
	}
	return entries, nil
}

func (s *exerciseStoreStub) UpdateExercise(ctx context.Context, entry workoutlog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update:" + entry.ID)
	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.entries[entry.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	updated := entry.Clone()
	updated.WorkoutLogID = stored.WorkoutLogID
	updated.OrderIndex = stored.OrderIndex
	s.entries[entry.ID] = updated
	return nil
}

func (s *exerciseStoreStub) UpdateExerciseOrder(ctx context.Context, id string, orderIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("order:%s:%d", id, orderIndex))
	if s.orderErr != nil {
		return s.orderErr
	}
	entry, ok := s.entries[id]
	if !ok {
		return persistence.ErrNotFound
	}
	entry.OrderIndex = orderIndex
	s.entries[id] = entry
	return nil
}

func (s *exerciseStoreStub) DeleteExercises(ctx context.Context, workoutLogID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("delete:%d", len(ids)))
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

func sortEntries(entries []workoutlog.Entry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			if entries[j-1].OrderIndex > entries[j].OrderIndex ||
				(entries[j-1].OrderIndex == entries[j].OrderIndex && entries[j-1].ID > entries[j].ID) {
				entries[j-1], entries[j] = entries[j], entries[j-1]
			}
		}
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	counter := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}
