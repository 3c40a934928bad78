package application

import (
	"context"
	"testing"
	"time"

	"github.com/example/workout-tracker/internal/workoutlog"
)

func TestResolveFallsBackWhenCachedRowDeleted(t *testing.T) {
	logs := newLogStoreStub()
	service := newTestService(logs, newExerciseStoreStub())
	ctx := context.Background()

	first, err := service.EnsureExists(ctx, "owner-1", "program-1", 0, 0)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}

	// The row vanishes behind the cache's back.
	logs.mu.Lock()
	delete(logs.logs, first)
	logs.mu.Unlock()

	second, err := service.EnsureExists(ctx, "owner-1", "program-1", 0, 0)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second == first {
		t.Fatal("expected a fresh row after the cached one was deleted")
	}
	if logs.createCalls != 2 {
		t.Fatalf("expected store fallback to create again, got %d creates", logs.createCalls)
	}
}

func TestResolveRejectsCachedKeyMismatch(t *testing.T) {
	logs := newLogStoreStub()
	service := newTestService(logs, newExerciseStoreStub())
	ctx := context.Background()

	first, err := service.EnsureExists(ctx, "owner-1", "program-1", 1, 2)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}

	// The stored row no longer belongs to the cached slot.
	logs.mu.Lock()
	row := logs.logs[first]
	row.OwnerID = "owner-other"
	logs.logs[first] = row
	logs.mu.Unlock()

	second, err := service.EnsureExists(ctx, "owner-1", "program-1", 1, 2)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second == first {
		t.Fatal("expected the mismatched cache entry to be discarded")
	}
}

func TestLogCacheGetClonesSnapshot(t *testing.T) {
	cache := newLogCache(4, fixedClock(time.Date(2025, time.April, 7, 6, 0, 0, 0, time.UTC)))
	key := programSlot("owner-1", "program-1", 0, 0)
	cache.Put(key, "log-1", []workoutlog.Entry{storedEntry("ex-a", "log-1", "bench-press", 0, 10)})

	entry, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	*entry.Exercises[0].Reps[0] = 99
	entry.Exercises[0].Notes = "scribbled"

	again, _ := cache.Get(key)
	if *again.Exercises[0].Reps[0] != 10 || again.Exercises[0].Notes != "" {
		t.Fatalf("expected snapshot isolation, got %+v", again.Exercises[0])
	}
}

func TestLogCacheCleanupIDRemovesMappedKeys(t *testing.T) {
	cache := newLogCache(4, nil)
	keyA := programSlot("owner-1", "program-1", 0, 0)
	keyB := adHocSlot("owner-2")
	cache.Put(keyA, "log-1", nil)
	cache.Put(keyB, "log-2", nil)

	cache.CleanupID("log-1")

	if _, ok := cache.Get(keyA); ok {
		t.Fatal("expected log-1 key removed")
	}
	if _, ok := cache.Get(keyB); !ok {
		t.Fatal("expected unrelated key kept")
	}
}

func TestLogCacheEvictsBeyondBound(t *testing.T) {
	cache := newLogCache(2, nil)
	oldest := programSlot("owner-1", "program-1", 0, 0)
	cache.Put(oldest, "log-1", nil)
	cache.Put(programSlot("owner-1", "program-1", 0, 1), "log-2", nil)
	cache.Put(programSlot("owner-1", "program-1", 0, 2), "log-3", nil)

	if _, ok := cache.Get(oldest); ok {
		t.Fatal("expected the oldest entry evicted")
	}
}

func TestKeyForIDFindsMapping(t *testing.T) {
	cache := newLogCache(4, nil)
	key := adHocSlot("owner-1")
	cache.Put(key, "log-1", nil)

	found, ok := cache.KeyForID("log-1")
	if !ok || found != key {
		t.Fatalf("expected key for log-1, got %v ok=%v", found, ok)
	}
	if _, ok := cache.KeyForID("log-unknown"); ok {
		t.Fatal("expected miss for unknown ID")
	}
}
