package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/workout-tracker/internal/application"
	"github.com/example/workout-tracker/internal/persistence/sqlite"
)

// EngineHarness wires a LogService over the in-memory storage with
// deterministic identifiers and clock, for engine-level tests.
type EngineHarness struct {
	Service *application.LogService
	Store   *sqlite.Storage
	Clock   *Clock
	IDs     *IDGenerator
}

// EngineHarnessOption configures the harness before the service is built.
type EngineHarnessOption func(*engineHarnessConfig)

type engineHarnessConfig struct {
	logger  *slog.Logger
	options application.LogServiceOptions
}

// WithLogger attaches a base logger to the harness service.
func WithLogger(logger *slog.Logger) EngineHarnessOption {
	return func(cfg *engineHarnessConfig) {
		cfg.logger = logger
	}
}

// WithServiceOptions overrides the engine tuning options.
func WithServiceOptions(options application.LogServiceOptions) EngineHarnessOption {
	return func(cfg *engineHarnessConfig) {
		cfg.options = options
	}
}

// NewEngineHarness builds the harness with defaults.
func NewEngineHarness(opts ...EngineHarnessOption) *EngineHarness {
	cfg := engineHarnessConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := sqlite.OpenMemory()
	clock := NewClock(time.Time{})
	ids := NewIDGenerator("id")

	service := application.NewLogServiceWithOptions(
		store, store, ids.NextFunc(), clock.NowFunc(), cfg.logger, cfg.options)

	return &EngineHarness{Service: service, Store: store, Clock: clock, IDs: ids}
}
