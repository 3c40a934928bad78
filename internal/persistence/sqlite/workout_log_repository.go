package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
)

const workoutLogColumns = `id, owner_id, program_id, week_index, day_index, name, notes,
	duration_minutes, is_draft, is_finished, completed_at, created_at, updated_at`

// WorkoutLogRepository implements persistence.WorkoutLogRepository on SQLite.
type WorkoutLogRepository struct {
	pool *ConnectionPool
}

// NewWorkoutLogRepository creates a workout log repository over the pool.
func NewWorkoutLogRepository(pool *ConnectionPool) *WorkoutLogRepository {
	return &WorkoutLogRepository{pool: pool}
}

// CreateWorkoutLog inserts a new workout log row. A duplicate slot or
// duplicate ad-hoc draft surfaces as a ConstraintViolationError.
func (r *WorkoutLogRepository) CreateWorkoutLog(ctx context.Context, log persistence.WorkoutLog) (persistence.WorkoutLog, error) {
	if log.ID == "" {
		return persistence.WorkoutLog{}, fmt.Errorf("create workout log: missing id")
	}

	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	log.UpdatedAt = log.CreatedAt

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO workout_logs (`+workoutLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.OwnerID,
		nullString(log.ProgramID),
		nullInt(log.WeekIndex),
		nullInt(log.DayIndex),
		log.Name,
		log.Notes,
		nullInt(log.DurationMinutes),
		boolToInt(log.IsDraft),
		boolToInt(log.IsFinished),
		nullTime(log.CompletedAt),
		formatTime(log.CreatedAt),
		formatTime(log.UpdatedAt),
	)
	if err != nil {
		return persistence.WorkoutLog{}, mapError(err)
	}
	return log, nil
}

// GetWorkoutLog fetches a workout log by identifier.
func (r *WorkoutLogRepository) GetWorkoutLog(ctx context.Context, id string) (persistence.WorkoutLog, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+workoutLogColumns+` FROM workout_logs WHERE id = ?`, id)
	return scanWorkoutLog(row)
}

// FindWorkoutLogByKey fetches the row occupying a program workout slot.
func (r *WorkoutLogRepository) FindWorkoutLogByKey(ctx context.Context, key persistence.WorkoutLogKey) (persistence.WorkoutLog, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT `+workoutLogColumns+` FROM workout_logs
		WHERE owner_id = ? AND program_id = ? AND week_index = ? AND day_index = ?`,
		key.OwnerID, key.ProgramID, key.WeekIndex, key.DayIndex)
	return scanWorkoutLog(row)
}

// FindDraftWorkoutLog fetches the owner's ad-hoc draft session, if any.
func (r *WorkoutLogRepository) FindDraftWorkoutLog(ctx context.Context, ownerID string) (persistence.WorkoutLog, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT `+workoutLogColumns+` FROM workout_logs
		WHERE owner_id = ? AND program_id IS NULL AND is_draft = 1`, ownerID)
	return scanWorkoutLog(row)
}

// UpdateWorkoutLog applies the non-nil patch fields to an existing row and
// returns the updated state.
func (r *WorkoutLogRepository) UpdateWorkoutLog(ctx context.Context, id string, patch persistence.WorkoutLogPatch) (persistence.WorkoutLog, error) {
	assignments := make([]string, 0, 7)
	args := make([]any, 0, 8)

	if patch.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Notes != nil {
		assignments = append(assignments, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.DurationMinutes != nil {
		assignments = append(assignments, "duration_minutes = ?")
		args = append(args, *patch.DurationMinutes)
	}
	if patch.IsDraft != nil {
		assignments = append(assignments, "is_draft = ?")
		args = append(args, boolToInt(*patch.IsDraft))
	}
	if patch.IsFinished != nil {
		assignments = append(assignments, "is_finished = ?")
		args = append(args, boolToInt(*patch.IsFinished))
	}
	if patch.CompletedAt != nil {
		assignments = append(assignments, "completed_at = ?")
		args = append(args, formatTime(*patch.CompletedAt))
	}

	if len(assignments) > 0 {
		assignments = append(assignments, "updated_at = ?")
		args = append(args, formatTime(time.Now().UTC()))
		args = append(args, id)

		result, err := r.pool.db.ExecContext(ctx,
			`UPDATE workout_logs SET `+strings.Join(assignments, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return persistence.WorkoutLog{}, mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistence.WorkoutLog{}, err
		}
		if affected == 0 {
			return persistence.WorkoutLog{}, persistence.ErrNotFound
		}
	}

	return r.GetWorkoutLog(ctx, id)
}

// ListWorkoutLogs pages through workout logs ordered by identifier.
func (r *WorkoutLogRepository) ListWorkoutLogs(ctx context.Context, filter persistence.WorkoutLogFilter) ([]persistence.WorkoutLog, error) {
	query := `SELECT ` + workoutLogColumns + ` FROM workout_logs`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if filter.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.AfterID != "" {
		conditions = append(conditions, "id > ?")
		args = append(args, filter.AfterID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var logs []persistence.WorkoutLog
	for rows.Next() {
		log, err := scanWorkoutLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// DeleteWorkoutLog removes a workout log row; its exercises cascade.
func (r *WorkoutLogRepository) DeleteWorkoutLog(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkoutLog(row rowScanner) (persistence.WorkoutLog, error) {
	var (
		log             persistence.WorkoutLog
		programID       sql.NullString
		weekIndex       sql.NullInt64
		dayIndex        sql.NullInt64
		durationMinutes sql.NullInt64
		isDraft         int
		isFinished      int
		completedAt     sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := row.Scan(
		&log.ID, &log.OwnerID, &programID, &weekIndex, &dayIndex,
		&log.Name, &log.Notes, &durationMinutes, &isDraft, &isFinished,
		&completedAt, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return persistence.WorkoutLog{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.WorkoutLog{}, mapError(err)
	}

	if programID.Valid {
		log.ProgramID = &programID.String
	}
	if weekIndex.Valid {
		v := int(weekIndex.Int64)
		log.WeekIndex = &v
	}
	if dayIndex.Valid {
		v := int(dayIndex.Int64)
		log.DayIndex = &v
	}
	if durationMinutes.Valid {
		v := int(durationMinutes.Int64)
		log.DurationMinutes = &v
	}
	log.IsDraft = isDraft != 0
	log.IsFinished = isFinished != 0
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return persistence.WorkoutLog{}, fmt.Errorf("parse completed_at: %w", err)
		}
		log.CompletedAt = &t
	}
	if log.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.WorkoutLog{}, fmt.Errorf("parse created_at: %w", err)
	}
	if log.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.WorkoutLog{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return log, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(v *time.Time) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*v), Valid: true}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
