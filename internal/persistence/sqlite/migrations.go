package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the ordered schema steps. Each entry runs at most once;
// the applied version is tracked in schema_migrations.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS workout_logs (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		program_id TEXT,
		week_index INTEGER,
		day_index INTEGER,
		name TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER,
		is_draft INTEGER NOT NULL DEFAULT 0,
		is_finished INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	// One row per program workout slot. NULL coordinates fall outside the
	// index, so ad-hoc sessions never collide here.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_workout_logs_slot
		ON workout_logs(owner_id, program_id, week_index, day_index)
		WHERE program_id IS NOT NULL AND week_index IS NOT NULL AND day_index IS NOT NULL`,
	// At most one ad-hoc draft per owner.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_workout_logs_adhoc_draft
		ON workout_logs(owner_id)
		WHERE program_id IS NULL AND is_draft = 1`,
	`CREATE TABLE IF NOT EXISTS workout_log_exercises (
		id TEXT PRIMARY KEY,
		workout_log_id TEXT NOT NULL REFERENCES workout_logs(id) ON DELETE CASCADE,
		exercise_id TEXT NOT NULL,
		set_count INTEGER NOT NULL CHECK (set_count > 0),
		reps TEXT NOT NULL,
		weights TEXT NOT NULL,
		completed TEXT NOT NULL,
		bodyweight REAL,
		order_index INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (workout_log_id, exercise_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_log_exercises_log
		ON workout_log_exercises(workout_log_id, order_index)`,
}

// Migrate applies any schema steps not yet recorded in schema_migrations.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err := cp.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema version: %w", err)
	}

	for version := current + 1; version <= len(migrations); version++ {
		step := migrations[version-1]
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(step); err != nil {
				return fmt.Errorf("apply migration %d: %w", version, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
