package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the workout
// tracker.
type Config struct {
	SQLiteDSN             string
	CacheSize             int
	ReorderBatchThreshold int
	ReorderBatchSize      int
	BackfillBatchSize     int
}

// Load parses configuration values from the current process environment,
// applying defaults for optional fields and reporting every invalid entry at
// once.
func Load() (Config, error) {
	cfg := Config{
		SQLiteDSN:             "file:tracker.db?_foreign_keys=on",
		CacheSize:             256,
		ReorderBatchThreshold: 5,
		ReorderBatchSize:      4,
		BackfillBatchSize:     400,
	}

	invalid := make([]string, 0, 2)

	if dsn := strings.TrimSpace(os.Getenv("TRACKER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	readPositiveInt(&cfg.CacheSize, "TRACKER_CACHE_SIZE", &invalid)
	readPositiveInt(&cfg.ReorderBatchThreshold, "TRACKER_REORDER_BATCH_THRESHOLD", &invalid)
	readPositiveInt(&cfg.ReorderBatchSize, "TRACKER_REORDER_BATCH_SIZE", &invalid)
	readPositiveInt(&cfg.BackfillBatchSize, "TRACKER_BACKFILL_BATCH_SIZE", &invalid)

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func readPositiveInt(target *int, name string, invalid *[]string) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		*invalid = append(*invalid, name)
		return
	}
	*target = value
}
