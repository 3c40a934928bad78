package application

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/workout-tracker/internal/workoutlog"
)

const defaultCacheSize = 256

// logCache maps logical slot keys to the current persisted identifier and an
// exercise snapshot. It is bounded, process-local, and never the source of
// truth: validation against the store decides whether an entry is trusted.
type logCache struct {
	mu      sync.Mutex
	entries *lru.Cache[slotKey, CacheEntry]
	now     func() time.Time
}

func newLogCache(size int, now func() time.Time) *logCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if now == nil {
		now = time.Now
	}
	entries, _ := lru.New[slotKey, CacheEntry](size)
	return &logCache{entries: entries, now: now}
}

// Get returns the cached entry for the key, if any. The snapshot is cloned so
// callers cannot mutate cache state.
func (c *logCache) Get(key slotKey) (CacheEntry, bool) {
	if c == nil {
		return CacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return CacheEntry{}, false
	}
	entry.Exercises = workoutlog.CloneEntries(entry.Exercises)
	return entry, true
}

// Put records the key's current identifier and exercise snapshot.
func (c *logCache) Put(key slotKey, workoutLogID string, exercises []workoutlog.Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(key, CacheEntry{
		WorkoutLogID: workoutLogID,
		LastSavedAt:  c.now(),
		Exercises:    workoutlog.CloneEntries(exercises),
	})
}

// Cleanup removes a key, forcing the next access to fall back to the store.
func (c *logCache) Cleanup(key slotKey) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries.Remove(key)
	c.mu.Unlock()
}

// CleanupID removes every key currently mapped to the workout log ID, for
// failure paths that only know the identifier.
func (c *logCache) CleanupID(workoutLogID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(key); ok && entry.WorkoutLogID == workoutLogID {
			c.entries.Remove(key)
		}
	}
}

// KeyForID finds the key currently mapped to the workout log ID.
func (c *logCache) KeyForID(workoutLogID string) (slotKey, bool) {
	if c == nil {
		return slotKey{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(key); ok && entry.WorkoutLogID == workoutLogID {
			return key, true
		}
	}
	return slotKey{}, false
}
