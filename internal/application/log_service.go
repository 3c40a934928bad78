package application

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultReorderBatchThreshold = 5
	defaultReorderBatchSize      = 4
)

// LogService is the workout-log synchronization engine. It reconciles caller
// supplied exercise snapshots against the record store with minimal writes,
// guarantees at most one row per logical workout slot under concurrent
// callers, and recovers creation conflicts without losing caller data.
type LogService struct {
	logs      WorkoutLogStore
	exercises ExerciseStore
	cache     *logCache
	newID     func() string
	now       func() time.Time
	logger    *slog.Logger

	// reorder tuning
	reorderBatchThreshold int
	reorderBatchSize      int

	inflightMu sync.Mutex
	inflight   map[slotKey]*inflightResolution
}

// LogServiceOptions tunes engine behavior. The zero value applies defaults.
type LogServiceOptions struct {
	// CacheSize bounds the slot cache; zero applies the default.
	CacheSize int
	// ReorderBatchThreshold is the move count above which position updates
	// run in parallel groups instead of sequentially.
	ReorderBatchThreshold int
	// ReorderBatchSize bounds each parallel group.
	ReorderBatchSize int
}

// NewLogService wires dependencies for the synchronization engine.
func NewLogService(logs WorkoutLogStore, exercises ExerciseStore, newID func() string, now func() time.Time) *LogService {
	return NewLogServiceWithOptions(logs, exercises, newID, now, nil, LogServiceOptions{})
}

// NewLogServiceWithLogger wires dependencies together with a base logger.
func NewLogServiceWithLogger(logs WorkoutLogStore, exercises ExerciseStore, newID func() string, now func() time.Time, logger *slog.Logger) *LogService {
	return NewLogServiceWithOptions(logs, exercises, newID, now, logger, LogServiceOptions{})
}

// NewLogServiceWithOptions wires dependencies with explicit tuning.
func NewLogServiceWithOptions(logs WorkoutLogStore, exercises ExerciseStore, newID func() string, now func() time.Time, logger *slog.Logger, opts LogServiceOptions) *LogService {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	threshold := opts.ReorderBatchThreshold
	if threshold <= 0 {
		threshold = defaultReorderBatchThreshold
	}
	batchSize := opts.ReorderBatchSize
	if batchSize <= 0 {
		batchSize = defaultReorderBatchSize
	}
	return &LogService{
		logs:                  logs,
		exercises:             exercises,
		cache:                 newLogCache(opts.CacheSize, now),
		newID:                 newID,
		now:                   now,
		logger:                defaultLogger(logger),
		reorderBatchThreshold: threshold,
		reorderBatchSize:      batchSize,
		inflight:              make(map[slotKey]*inflightResolution),
	}
}
