package sqlite

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

// Storage provides an in-memory implementation of the persistence
// repositories. It enforces the same uniqueness rules as the SQLite schema
// and is used as the record store in engine and concurrency tests.
type Storage struct {
	mu        sync.RWMutex
	logs      map[string]persistence.WorkoutLog
	exercises map[string]workoutlog.Entry
}

// OpenMemory returns an empty in-memory storage.
func OpenMemory() *Storage {
	return &Storage{
		logs:      make(map[string]persistence.WorkoutLog),
		exercises: make(map[string]workoutlog.Entry),
	}
}

// Close releases resources held by the storage. No-op for the in-memory
// implementation.
func (s *Storage) Close() error {
	return nil
}

// --- WorkoutLogRepository implementation ---

// CreateWorkoutLog stores a new workout log, enforcing slot uniqueness.
func (s *Storage) CreateWorkoutLog(ctx context.Context, log persistence.WorkoutLog) (persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return persistence.WorkoutLog{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[log.ID]; ok {
		return persistence.WorkoutLog{}, &persistence.ConstraintViolationError{
			Table:  "workout_logs",
			Fields: []string{"id"},
			Err:    fmt.Errorf("workout log %s already exists", log.ID),
		}
	}
	if err := s.checkSlotUniqueLocked(log); err != nil {
		return persistence.WorkoutLog{}, err
	}

	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	log.UpdatedAt = log.CreatedAt

	s.logs[log.ID] = log
	return log, nil
}

// GetWorkoutLog fetches a workout log by identifier.
func (s *Storage) GetWorkoutLog(ctx context.Context, id string) (persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return persistence.WorkoutLog{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[id]
	if !ok {
		return persistence.WorkoutLog{}, persistence.ErrNotFound
	}
	return log, nil
}

// FindWorkoutLogByKey fetches the row occupying a program workout slot.
func (s *Storage) FindWorkoutLogByKey(ctx context.Context, key persistence.WorkoutLogKey) (persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return persistence.WorkoutLog{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, log := range s.logs {
		if matchesKey(log, key) {
			return log, nil
		}
	}
	return persistence.WorkoutLog{}, persistence.ErrNotFound
}

// FindDraftWorkoutLog fetches the owner's ad-hoc draft session, if any.
func (s *Storage) FindDraftWorkoutLog(ctx context.Context, ownerID string) (persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return persistence.WorkoutLog{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, log := range s.logs {
		if log.OwnerID == ownerID && log.ProgramID == nil && log.IsDraft {
			return log, nil
		}
	}
	return persistence.WorkoutLog{}, persistence.ErrNotFound
}

// UpdateWorkoutLog applies the non-nil patch fields to an existing row.
func (s *Storage) UpdateWorkoutLog(ctx context.Context, id string, patch persistence.WorkoutLogPatch) (persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return persistence.WorkoutLog{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

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
		v := *patch.DurationMinutes
		log.DurationMinutes = &v
	}
	if patch.IsDraft != nil {
		log.IsDraft = *patch.IsDraft
	}
	if patch.IsFinished != nil {
		log.IsFinished = *patch.IsFinished
	}
	if patch.CompletedAt != nil {
		v := *patch.CompletedAt
		log.CompletedAt = &v
	}
	if !patch.IsZero() {
		log.UpdatedAt = time.Now().UTC()
	}

	s.logs[id] = log
	return log, nil
}

// ListWorkoutLogs pages through workout logs ordered by identifier.
func (s *Storage) ListWorkoutLogs(ctx context.Context, filter persistence.WorkoutLogFilter) ([]persistence.WorkoutLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]persistence.WorkoutLog, 0, len(s.logs))
	for _, log := range s.logs {
		if filter.OwnerID != "" && log.OwnerID != filter.OwnerID {
			continue
		}
		if filter.AfterID != "" && log.ID <= filter.AfterID {
			continue
		}
		logs = append(logs, log)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })
	if filter.Limit > 0 && len(logs) > filter.Limit {
		logs = logs[:filter.Limit]
	}
	return logs, nil
}

// DeleteWorkoutLog removes a workout log and its exercises.
func (s *Storage) DeleteWorkoutLog(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.logs, id)
	for entryID, entry := range s.exercises {
		if entry.WorkoutLogID == id {
			delete(s.exercises, entryID)
		}
	}
	return nil
}

// --- ExerciseRepository implementation ---

// ListExercises returns the entries for a workout log ordered by order index.
func (s *Storage) ListExercises(ctx context.Context, workoutLogID string) ([]workoutlog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []workoutlog.Entry
	for _, entry := range s.exercises {
		if entry.WorkoutLogID == workoutLogID {
			entries = append(entries, entry.Clone())
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].OrderIndex != entries[j].OrderIndex {
			return entries[i].OrderIndex < entries[j].OrderIndex
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// InsertExercises stores the batch, enforcing the one-entry-per-exercise
// rule. A conflict anywhere in the batch inserts nothing.
func (s *Storage) InsertExercises(ctx context.Context, entries []workoutlog.Entry) ([]workoutlog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if _, ok := s.exercises[entry.ID]; ok {
			return nil, &persistence.ConstraintViolationError{
				Table:  "workout_log_exercises",
				Fields: []string{"id"},
				Err:    fmt.Errorf("exercise entry %s already exists", entry.ID),
			}
		}
		pairKey := entry.WorkoutLogID + "|" + entry.ExerciseID
		if seen[pairKey] || s.hasExerciseLocked(entry.WorkoutLogID, entry.ExerciseID) {
			return nil, &persistence.ConstraintViolationError{
				Table:  "workout_log_exercises",
				Fields: []string{"workout_log_id", "exercise_id"},
				Err:    fmt.Errorf("exercise %s already logged for workout %s", entry.ExerciseID, entry.WorkoutLogID),
			}
		}
		seen[pairKey] = true
	}

	for _, entry := range entries {
		s.exercises[entry.ID] = entry.Clone()
	}
	return workoutlog.CloneEntries(entries), nil
}

// UpdateExercise rewrites every caller-editable field of the entry.
func (s *Storage) UpdateExercise(ctx context.Context, entry workoutlog.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.exercises[entry.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	if stored.ExerciseID != entry.ExerciseID && s.hasExerciseLocked(stored.WorkoutLogID, entry.ExerciseID) {
		return &persistence.ConstraintViolationError{
			Table:  "workout_log_exercises",
			Fields: []string{"workout_log_id", "exercise_id"},
			Err:    fmt.Errorf("exercise %s already logged for workout %s", entry.ExerciseID, stored.WorkoutLogID),
		}
	}

	updated := entry.Clone()
	updated.WorkoutLogID = stored.WorkoutLogID
	updated.OrderIndex = stored.OrderIndex
	s.exercises[entry.ID] = updated
	return nil
}

// UpdateExerciseOrder moves a single entry to a new position.
func (s *Storage) UpdateExerciseOrder(ctx context.Context, id string, orderIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.exercises[id]
	if !ok {
		return persistence.ErrNotFound
	}
	entry.OrderIndex = orderIndex
	s.exercises[id] = entry
	return nil
}

// DeleteExercises removes the identified entries of a workout log.
func (s *Storage) DeleteExercises(ctx context.Context, workoutLogID string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		entry, ok := s.exercises[id]
		if !ok || entry.WorkoutLogID != workoutLogID {
			continue
		}
		delete(s.exercises, id)
	}
	return nil
}

// CountWorkoutLogs reports the stored row count, used by concurrency tests.
func (s *Storage) CountWorkoutLogs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

func (s *Storage) checkSlotUniqueLocked(candidate persistence.WorkoutLog) error {
	for _, log := range s.logs {
		if log.OwnerID != candidate.OwnerID {
			continue
		}
		if candidate.ProgramID != nil && log.ProgramID != nil &&
			*log.ProgramID == *candidate.ProgramID &&
			intPtrEqual(log.WeekIndex, candidate.WeekIndex) &&
			intPtrEqual(log.DayIndex, candidate.DayIndex) &&
			candidate.WeekIndex != nil && candidate.DayIndex != nil {
			return &persistence.ConstraintViolationError{
				Table:  "workout_logs",
				Fields: []string{"owner_id", "program_id", "week_index", "day_index"},
				Err:    fmt.Errorf("slot already occupied by %s", log.ID),
			}
		}
		if candidate.ProgramID == nil && candidate.IsDraft && log.ProgramID == nil && log.IsDraft {
			return &persistence.ConstraintViolationError{
				Table:  "workout_logs",
				Fields: []string{"owner_id"},
				Err:    fmt.Errorf("ad-hoc draft already exists for owner %s", candidate.OwnerID),
			}
		}
	}
	return nil
}

func (s *Storage) hasExerciseLocked(workoutLogID, exerciseID string) bool {
	for _, entry := range s.exercises {
		if entry.WorkoutLogID == workoutLogID && entry.ExerciseID == exerciseID {
			return true
		}
	}
	return false
}

func matchesKey(log persistence.WorkoutLog, key persistence.WorkoutLogKey) bool {
	if log.OwnerID != key.OwnerID || log.ProgramID == nil || *log.ProgramID != key.ProgramID {
		return false
	}
	return log.WeekIndex != nil && *log.WeekIndex == key.WeekIndex &&
		log.DayIndex != nil && *log.DayIndex == key.DayIndex
}

func intPtrEqual(a, b *int) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
