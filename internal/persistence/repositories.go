package persistence

import (
	"context"

	"github.com/example/workout-tracker/internal/workoutlog"
)

// WorkoutLogRepository exposes CRUD operations for workout log rows.
type WorkoutLogRepository interface {
	CreateWorkoutLog(ctx context.Context, log WorkoutLog) (WorkoutLog, error)
	GetWorkoutLog(ctx context.Context, id string) (WorkoutLog, error)
	FindWorkoutLogByKey(ctx context.Context, key WorkoutLogKey) (WorkoutLog, error)
	FindDraftWorkoutLog(ctx context.Context, ownerID string) (WorkoutLog, error)
	UpdateWorkoutLog(ctx context.Context, id string, patch WorkoutLogPatch) (WorkoutLog, error)
	ListWorkoutLogs(ctx context.Context, filter WorkoutLogFilter) ([]WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, id string) error
}

// ExerciseRepository exposes CRUD operations for the exercise entries owned
// by a workout log.
type ExerciseRepository interface {
	// ListExercises returns the entries for a workout log ordered by their
	// order index.
	ListExercises(ctx context.Context, workoutLogID string) ([]workoutlog.Entry, error)
	// InsertExercises stores the batch atomically; a uniqueness conflict
	// anywhere in the batch inserts nothing.
	InsertExercises(ctx context.Context, entries []workoutlog.Entry) ([]workoutlog.Entry, error)
	UpdateExercise(ctx context.Context, entry workoutlog.Entry) error
	UpdateExerciseOrder(ctx context.Context, id string, orderIndex int) error
	DeleteExercises(ctx context.Context, workoutLogID string, ids []string) error
}
