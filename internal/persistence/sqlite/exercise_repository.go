package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

const exerciseColumns = `id, workout_log_id, exercise_id, set_count, reps, weights,
	completed, bodyweight, order_index, notes`

// ExerciseRepository implements persistence.ExerciseRepository on SQLite.
// Per-set sequences are stored as JSON arrays so nil reps survive a
// round-trip intact.
type ExerciseRepository struct {
	pool *ConnectionPool
}

// NewExerciseRepository creates an exercise repository over the pool.
func NewExerciseRepository(pool *ConnectionPool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// ListExercises returns the entries for a workout log ordered by order index.
func (r *ExerciseRepository) ListExercises(ctx context.Context, workoutLogID string) ([]workoutlog.Entry, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT `+exerciseColumns+` FROM workout_log_exercises
		WHERE workout_log_id = ? ORDER BY order_index, id`, workoutLogID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []workoutlog.Entry
	for rows.Next() {
		entry, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// InsertExercises stores the batch inside one transaction. A uniqueness
// conflict anywhere in the batch rolls the whole batch back and surfaces as
// a ConstraintViolationError.
func (r *ExerciseRepository) InsertExercises(ctx context.Context, entries []workoutlog.Entry) ([]workoutlog.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO workout_log_exercises (` + exerciseColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, entry := range entries {
			reps, weights, completed, err := encodeSequences(entry)
			if err != nil {
				return err
			}
			_, err = stmt.Exec(
				entry.ID,
				entry.WorkoutLogID,
				entry.ExerciseID,
				entry.SetCount,
				reps,
				weights,
				completed,
				nullFloat(entry.Bodyweight),
				entry.OrderIndex,
				entry.Notes,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateExercise rewrites every caller-editable field of the entry.
func (r *ExerciseRepository) UpdateExercise(ctx context.Context, entry workoutlog.Entry) error {
	reps, weights, completed, err := encodeSequences(entry)
	if err != nil {
		return err
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE workout_log_exercises
		SET exercise_id = ?, set_count = ?, reps = ?, weights = ?, completed = ?,
			bodyweight = ?, notes = ?
		WHERE id = ?`,
		entry.ExerciseID, entry.SetCount, reps, weights, completed,
		nullFloat(entry.Bodyweight), entry.Notes, entry.ID)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// UpdateExerciseOrder moves a single entry to a new position.
func (r *ExerciseRepository) UpdateExerciseOrder(ctx context.Context, id string, orderIndex int) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE workout_log_exercises SET order_index = ? WHERE id = ?`, orderIndex, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteExercises removes the identified entries of a workout log in one
// statement.
func (r *ExerciseRepository) DeleteExercises(ctx context.Context, workoutLogID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?, ", len(ids))
	placeholders = placeholders[:len(placeholders)-2]
	args := make([]any, 0, len(ids)+1)
	args = append(args, workoutLogID)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.pool.db.ExecContext(ctx, `
		DELETE FROM workout_log_exercises
		WHERE workout_log_id = ? AND id IN (`+placeholders+`)`, args...)
	return mapError(err)
}

func scanExercise(row rowScanner) (workoutlog.Entry, error) {
	var (
		entry      workoutlog.Entry
		reps       string
		weights    string
		completed  string
		bodyweight sql.NullFloat64
	)

	err := row.Scan(
		&entry.ID, &entry.WorkoutLogID, &entry.ExerciseID, &entry.SetCount,
		&reps, &weights, &completed, &bodyweight, &entry.OrderIndex, &entry.Notes,
	)
	if err == sql.ErrNoRows {
		return workoutlog.Entry{}, persistence.ErrNotFound
	}
	if err != nil {
		return workoutlog.Entry{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(reps), &entry.Reps); err != nil {
		return workoutlog.Entry{}, fmt.Errorf("decode reps: %w", err)
	}
	if err := json.Unmarshal([]byte(weights), &entry.Weights); err != nil {
		return workoutlog.Entry{}, fmt.Errorf("decode weights: %w", err)
	}
	if err := json.Unmarshal([]byte(completed), &entry.Completed); err != nil {
		return workoutlog.Entry{}, fmt.Errorf("decode completed: %w", err)
	}
	if bodyweight.Valid {
		entry.Bodyweight = &bodyweight.Float64
	}
	return entry, nil
}

func encodeSequences(entry workoutlog.Entry) (string, string, string, error) {
	reps, err := json.Marshal(entry.Reps)
	if err != nil {
		return "", "", "", fmt.Errorf("encode reps: %w", err)
	}
	weights, err := json.Marshal(entry.Weights)
	if err != nil {
		return "", "", "", fmt.Errorf("encode weights: %w", err)
	}
	completed, err := json.Marshal(entry.Completed)
	if err != nil {
		return "", "", "", fmt.Errorf("encode completed: %w", err)
	}
	return string(reps), string(weights), string(completed), nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
