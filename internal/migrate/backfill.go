// Package migrate holds one-off maintenance jobs run against the workout
// log store.
package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/workout-tracker/internal/persistence"
)

const defaultBatchSize = 400

// BackfillResult summarizes a completed-date backfill run.
type BackfillResult struct {
	Processed int
	Updated   int
}

// BackfillCompletedAt pages through every workout log and stamps a missing
// completion timestamp on finished sessions, using the row's last update
// time. Rows that already carry a completion timestamp are skipped, so the
// job is idempotent and safe to re-run.
func BackfillCompletedAt(ctx context.Context, logs persistence.WorkoutLogRepository, batchSize int, logger *slog.Logger) (BackfillResult, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	var result BackfillResult
	afterID := ""

	for {
		page, err := logs.ListWorkoutLogs(ctx, persistence.WorkoutLogFilter{AfterID: afterID, Limit: batchSize})
		if err != nil {
			return result, fmt.Errorf("backfill completed_at: list after %q: %w", afterID, err)
		}
		if len(page) == 0 {
			break
		}

		updatedInBatch := 0
		for _, log := range page {
			if !log.IsFinished || log.CompletedAt != nil {
				continue
			}
			completedAt := log.UpdatedAt
			_, err := logs.UpdateWorkoutLog(ctx, log.ID, persistence.WorkoutLogPatch{CompletedAt: &completedAt})
			if err != nil {
				return result, fmt.Errorf("backfill completed_at: update %s: %w", log.ID, err)
			}
			updatedInBatch++
		}

		result.Processed += len(page)
		result.Updated += updatedInBatch
		logger.Info("backfill batch committed", "batch", len(page), "updated", updatedInBatch)

		afterID = page[len(page)-1].ID
		if len(page) < batchSize {
			break
		}
	}

	logger.Info("backfill complete", "processed", result.Processed, "updated", result.Updated)
	return result, nil
}
