package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/workout-tracker/internal/persistence"
)

// inflightResolution is the shared result of one slot resolution. Callers
// arriving while it is in flight wait on done instead of starting their own
// resolution; that cooperative de-duplication is what keeps concurrent
// autosaves from racing the store's uniqueness constraint in the common case.
type inflightResolution struct {
	done chan struct{}
	id   string
	err  error
}

// EnsureExists resolves the workout log identifier for a program slot,
// creating a minimal draft row when none exists yet. Concurrent calls for the
// same slot resolve to the same identifier and at most one row is created.
func (s *LogService) EnsureExists(ctx context.Context, ownerID, programID string, weekIndex, dayIndex int) (string, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(ownerID) == "" {
		vErr.add("ownerId", "required")
	}
	if strings.TrimSpace(programID) == "" {
		vErr.add("programId", "required")
	}
	if weekIndex < 0 {
		vErr.add("weekIndex", "must not be negative")
	}
	if dayIndex < 0 {
		vErr.add("dayIndex", "must not be negative")
	}
	if vErr.HasErrors() {
		return "", vErr
	}

	return s.resolveSlot(ctx, programSlot(ownerID, programID, weekIndex, dayIndex))
}

// EnsureDraft resolves the owner's single ad-hoc draft session, creating it
// when absent. The same at-most-one guarantee applies per owner.
func (s *LogService) EnsureDraft(ctx context.Context, ownerID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		vErr := &ValidationError{}
		vErr.add("ownerId", "required")
		return "", vErr
	}
	return s.resolveSlot(ctx, adHocSlot(ownerID))
}

// resolveSlot serializes resolution per logical key. The first caller
// resolves; later callers for the same key await the shared result. The
// in-flight entry is removed once resolution completes regardless of outcome,
// so subsequent calls re-resolve.
func (s *LogService) resolveSlot(ctx context.Context, key slotKey) (string, error) {
	s.inflightMu.Lock()
	if r, ok := s.inflight[key]; ok {
		s.inflightMu.Unlock()
		select {
		case <-r.done:
			return r.id, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	r := &inflightResolution{done: make(chan struct{})}
	s.inflight[key] = r
	s.inflightMu.Unlock()

	r.id, r.err = s.resolveSlotOnce(ctx, key)

	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
	close(r.done)

	return r.id, r.err
}

// resolveSlotOnce resolves a slot: cache, then store lookup by natural key,
// then draft creation with constraint-violation recovery.
func (s *LogService) resolveSlotOnce(ctx context.Context, key slotKey) (string, error) {
	logger := serviceLogger(ctx, s.logger, "resolveSlot", "key", key.String())

	if entry, ok := s.cache.Get(key); ok {
		valid, reason := s.validateCachedSlot(ctx, key, entry)
		if valid {
			return entry.WorkoutLogID, nil
		}
		s.cache.Cleanup(key)
		logger.Warn("cached workout log rejected", "workout_log_id", entry.WorkoutLogID, "reason", reason)
	}

	existing, err := s.findSlotRow(ctx, key)
	if err == nil {
		s.cache.Put(key, existing.ID, nil)
		return existing.ID, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		s.cache.Cleanup(key)
		return "", fmt.Errorf("resolve slot %s: %w", key, err)
	}

	created, err := s.logs.CreateWorkoutLog(ctx, s.draftRowFor(key))
	if err == nil {
		s.cache.Put(key, created.ID, nil)
		return created.ID, nil
	}
	if !persistence.IsConstraintViolation(err) {
		s.cache.Cleanup(key)
		return "", fmt.Errorf("create workout log for slot %s: %w", key, err)
	}

	// Another writer committed the slot between our lookup and create. The
	// constraint is the arbiter; fold back onto the winning row.
	recovered, rerr := s.findSlotRow(ctx, key)
	if rerr == nil {
		logger.Info("creation conflict recovered", "workout_log_id", recovered.ID)
		s.cache.Put(key, recovered.ID, nil)
		return recovered.ID, nil
	}
	s.cache.Cleanup(key)
	if errors.Is(rerr, persistence.ErrNotFound) {
		return "", fmt.Errorf("resolve slot %s: %w", key, ErrRecoveryLookupFailed)
	}
	return "", fmt.Errorf("recover slot %s after creation conflict: %w", key, rerr)
}

// findSlotRow queries the store for the row occupying a logical slot.
func (s *LogService) findSlotRow(ctx context.Context, key slotKey) (persistence.WorkoutLog, error) {
	if key.adHoc {
		return s.logs.FindDraftWorkoutLog(ctx, key.ownerID)
	}
	return s.logs.FindWorkoutLogByKey(ctx, key.naturalKey())
}

// draftRowFor builds the minimal draft row created for an unresolved slot.
func (s *LogService) draftRowFor(key slotKey) persistence.WorkoutLog {
	now := s.now()
	log := persistence.WorkoutLog{
		ID:        s.newID(),
		OwnerID:   key.ownerID,
		IsDraft:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !key.adHoc {
		programID := key.programID
		weekIndex := key.weekIndex
		dayIndex := key.dayIndex
		log.ProgramID = &programID
		log.WeekIndex = &weekIndex
		log.DayIndex = &dayIndex
	}
	return log
}

// validateCachedSlot confirms a cached identifier still resolves in the store
// and still belongs to the logical key it is cached under. Store failures
// count as invalid; the caller falls back to a direct store query, which
// surfaces the failure if it persists.
func (s *LogService) validateCachedSlot(ctx context.Context, key slotKey, entry CacheEntry) (bool, string) {
	log, err := s.logs.GetWorkoutLog(ctx, entry.WorkoutLogID)
	if errors.Is(err, persistence.ErrNotFound) {
		return false, "row missing"
	}
	if err != nil {
		return false, "store error: " + err.Error()
	}
	if !slotRowMatches(log, key) {
		return false, "key mismatch"
	}
	return true, ""
}

func slotRowMatches(log persistence.WorkoutLog, key slotKey) bool {
	if log.OwnerID != key.ownerID {
		return false
	}
	if key.adHoc {
		// A finished session no longer occupies the owner's draft slot.
		return log.ProgramID == nil && log.IsDraft
	}
	return log.ProgramID != nil && *log.ProgramID == key.programID &&
		log.WeekIndex != nil && *log.WeekIndex == key.weekIndex &&
		log.DayIndex != nil && *log.DayIndex == key.dayIndex
}
