package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/example/workout-tracker/internal/application"
	"github.com/example/workout-tracker/internal/config"
	"github.com/example/workout-tracker/internal/logging"
	"github.com/example/workout-tracker/internal/migrate"
	"github.com/example/workout-tracker/internal/persistence/sqlite"
)

func main() {
	backfill := flag.Bool("backfill-completed-date", false,
		"stamp missing completion timestamps on finished workout logs, then exit")
	flag.Parse()

	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *backfill); err != nil {
		logger.Error("tracker failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, backfill bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("schema up to date", "dsn", cfg.SQLiteDSN)

	logs := sqlite.NewWorkoutLogRepository(pool)
	exercises := sqlite.NewExerciseRepository(pool)

	if backfill {
		result, err := migrate.BackfillCompletedAt(ctx, logs, cfg.BackfillBatchSize, logger)
		if err != nil {
			return err
		}
		logger.Info("completed-date backfill finished",
			"processed", result.Processed, "updated", result.Updated)
		return nil
	}

	// The engine itself is a library surface consumed by the application
	// layer; this process only maintains the store. Constructing the service
	// here keeps the production wiring honest.
	_ = newEngine(cfg, logs, exercises, logger)
	logger.Info("workout log engine ready")
	return nil
}

func newEngine(cfg config.Config, logs *sqlite.WorkoutLogRepository, exercises *sqlite.ExerciseRepository, logger *slog.Logger) *application.LogService {
	return application.NewLogServiceWithOptions(logs, exercises, uuid.NewString, nil, logger,
		application.LogServiceOptions{
			CacheSize:             cfg.CacheSize,
			ReorderBatchThreshold: cfg.ReorderBatchThreshold,
			ReorderBatchSize:      cfg.ReorderBatchSize,
		})
}
