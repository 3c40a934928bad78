package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

// WorkoutLogStore captures the workout log persistence interactions needed by
// the service.
type WorkoutLogStore interface {
	CreateWorkoutLog(ctx context.Context, log persistence.WorkoutLog) (persistence.WorkoutLog, error)
	GetWorkoutLog(ctx context.Context, id string) (persistence.WorkoutLog, error)
	FindWorkoutLogByKey(ctx context.Context, key persistence.WorkoutLogKey) (persistence.WorkoutLog, error)
	FindDraftWorkoutLog(ctx context.Context, ownerID string) (persistence.WorkoutLog, error)
	UpdateWorkoutLog(ctx context.Context, id string, patch persistence.WorkoutLogPatch) (persistence.WorkoutLog, error)
}

// ExerciseStore captures the exercise entry persistence interactions needed
// by the service.
type ExerciseStore interface {
	ListExercises(ctx context.Context, workoutLogID string) ([]workoutlog.Entry, error)
	InsertExercises(ctx context.Context, entries []workoutlog.Entry) ([]workoutlog.Entry, error)
	UpdateExercise(ctx context.Context, entry workoutlog.Entry) error
	UpdateExerciseOrder(ctx context.Context, id string, orderIndex int) error
	DeleteExercises(ctx context.Context, workoutLogID string, ids []string) error
}

// slotKey identifies a logical workout slot: either a (owner, program, week,
// day) tuple or the owner's single ad-hoc draft.
type slotKey struct {
	ownerID   string
	programID string
	weekIndex int
	dayIndex  int
	adHoc     bool
}

func programSlot(ownerID, programID string, weekIndex, dayIndex int) slotKey {
	return slotKey{ownerID: ownerID, programID: programID, weekIndex: weekIndex, dayIndex: dayIndex}
}

func adHocSlot(ownerID string) slotKey {
	return slotKey{ownerID: ownerID, adHoc: true}
}

// String renders the key for logs and error messages.
func (k slotKey) String() string {
	if k.adHoc {
		return k.ownerID + "/adhoc"
	}
	return fmt.Sprintf("%s/%s/w%d/d%d", k.ownerID, k.programID, k.weekIndex, k.dayIndex)
}

// naturalKey converts a program slot into the store's four-part key.
func (k slotKey) naturalKey() persistence.WorkoutLogKey {
	return persistence.WorkoutLogKey{
		OwnerID:   k.ownerID,
		ProgramID: k.programID,
		WeekIndex: k.weekIndex,
		DayIndex:  k.dayIndex,
	}
}

// ExerciseConflict reports a single desired entry that could not be inserted
// because its exercise is already logged in the workout.
type ExerciseConflict struct {
	ExerciseID string
	Err        error
}

// UpsertResult reports what an upsert actually wrote. Conflicts carry the
// entries skipped because of duplicate-exercise collisions; the operation as
// a whole still succeeds so callers can surface a partial-save message.
type UpsertResult struct {
	Inserted     int
	Updated      int
	Deleted      int
	OrderUpdated int
	Conflicts    []ExerciseConflict
}

// HasConflicts reports whether any desired entries were skipped.
func (r UpsertResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// ReorderResult reports how many entries actually moved.
type ReorderResult struct {
	Updated int
}

// UpsertOptions tunes a single upsert invocation.
type UpsertOptions struct {
	// VerifyOrder re-reads the store after reconciling positions and logs a
	// warning when the final order does not match. Mismatches are non-fatal.
	VerifyOrder bool
}

// SaveWorkoutParams is the autosave payload for a program workout slot.
type SaveWorkoutParams struct {
	OwnerID   string
	ProgramID string
	WeekIndex int
	DayIndex  int
	Metadata  MetadataPatch
	Entries   []workoutlog.EntryInput
	Options   UpsertOptions
}

// SaveWorkoutResult reports the slot's resolved identifier and the writes
// performed.
type SaveWorkoutResult struct {
	WorkoutLogID string
	Upsert       UpsertResult
}

// FinishWorkoutParams finalizes a workout session with its last entry state.
type FinishWorkoutParams struct {
	WorkoutLogID    string
	DurationMinutes *int
	Notes           *string
	Entries         []workoutlog.EntryInput
	Options         UpsertOptions
}

// FinishWorkoutResult reports the finished row and the closing writes.
type FinishWorkoutResult struct {
	Log    persistence.WorkoutLog
	Upsert UpsertResult
}

// CacheEntry is the process-local snapshot kept per logical slot. It is never
// authoritative; every consumer must tolerate invalidation and fall back to
// the store.
type CacheEntry struct {
	WorkoutLogID string
	LastSavedAt  time.Time
	Exercises    []workoutlog.Entry
}
