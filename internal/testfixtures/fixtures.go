package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

var (
	logCounter   uint64
	entryCounter uint64
)

var referenceTime = time.Date(2025, time.February, 3, 8, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Workout log fixtures ---------------------------

// WorkoutLogOption configures the generated workout log fixture.
type WorkoutLogOption func(*persistence.WorkoutLog)

// NewWorkoutLogFixture returns a deterministic program-slot workout log with
// optional overrides.
func NewWorkoutLogFixture(opts ...WorkoutLogOption) persistence.WorkoutLog {
	idx := atomic.AddUint64(&logCounter, 1)
	programID := fmt.Sprintf("program-%03d", idx)
	week := 0
	day := int(idx % 7)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)

	log := persistence.WorkoutLog{
		ID:        fmt.Sprintf("log-%03d", idx),
		OwnerID:   fmt.Sprintf("owner-%03d", idx),
		ProgramID: &programID,
		WeekIndex: &week,
		DayIndex:  &day,
		IsDraft:   true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&log)
	}
	return log
}

// WithLogID overrides the generated workout log ID.
func WithLogID(id string) WorkoutLogOption {
	return func(log *persistence.WorkoutLog) {
		log.ID = id
	}
}

// WithOwner overrides the generated owner ID.
func WithOwner(ownerID string) WorkoutLogOption {
	return func(log *persistence.WorkoutLog) {
		log.OwnerID = ownerID
	}
}

// WithSlot pins the workout log to an explicit program slot.
func WithSlot(programID string, weekIndex, dayIndex int) WorkoutLogOption {
	return func(log *persistence.WorkoutLog) {
		log.ProgramID = &programID
		log.WeekIndex = &weekIndex
		log.DayIndex = &dayIndex
	}
}

// AsAdHocDraft clears the program coordinates, producing an ad-hoc draft.
func AsAdHocDraft() WorkoutLogOption {
	return func(log *persistence.WorkoutLog) {
		log.ProgramID = nil
		log.WeekIndex = nil
		log.DayIndex = nil
		log.IsDraft = true
	}
}

// AsFinished marks the fixture finished without a completion timestamp,
// the shape the completed-date backfill looks for.
func AsFinished() WorkoutLogOption {
	return func(log *persistence.WorkoutLog) {
		log.IsDraft = false
		log.IsFinished = true
	}
}

// --------------------------- Exercise fixtures ---------------------------

// EntryOption configures the generated exercise entry fixture.
type EntryOption func(*workoutlog.Entry)

// NewEntryFixture returns a deterministic normalized exercise entry owned by
// the given workout log.
func NewEntryFixture(workoutLogID string, opts ...EntryOption) workoutlog.Entry {
	idx := atomic.AddUint64(&entryCounter, 1)
	entry := workoutlog.Entry{
		ID:           fmt.Sprintf("entry-%03d", idx),
		WorkoutLogID: workoutLogID,
		ExerciseID:   fmt.Sprintf("exercise-%03d", idx),
		SetCount:     3,
		OrderIndex:   0,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return workoutlog.NormalizeEntry(entry)
}

// WithExercise overrides the referenced exercise.
func WithExercise(exerciseID string) EntryOption {
	return func(entry *workoutlog.Entry) {
		entry.ExerciseID = exerciseID
	}
}

// WithOrderIndex places the entry at an explicit position.
func WithOrderIndex(orderIndex int) EntryOption {
	return func(entry *workoutlog.Entry) {
		entry.OrderIndex = orderIndex
	}
}

// WithSets fills the entry with explicit rep counts, one per set.
func WithSets(reps ...int) EntryOption {
	return func(entry *workoutlog.Entry) {
		entry.SetCount = len(reps)
		entry.Reps = entry.Reps[:0]
		for _, r := range reps {
			copied := r
			entry.Reps = append(entry.Reps, &copied)
		}
	}
}
