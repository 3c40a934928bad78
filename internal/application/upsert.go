package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/workout-tracker/internal/persistence"
	"github.com/example/workout-tracker/internal/workoutlog"
)

// UpsertExercises reconciles the caller's desired entry list against the
// stored entries of a workout log, writing only the difference. Deletes run
// before updates and updates before inserts so no transient duplicate-key
// window opens. A duplicate-exercise collision on insert is reported as a
// structured conflict instead of failing the whole operation.
func (s *LogService) UpsertExercises(ctx context.Context, workoutLogID string, desired []workoutlog.EntryInput, opts UpsertOptions) (UpsertResult, error) {
	logger := serviceLogger(ctx, s.logger, "upsertExercises", "workout_log_id", workoutLogID)

	normalized, err := validateEntries(workoutLogID, desired)
	if err != nil {
		return UpsertResult{}, err
	}

	existing, err := s.exercises.ListExercises(ctx, workoutLogID)
	if err != nil {
		s.cache.CleanupID(workoutLogID)
		return UpsertResult{}, fmt.Errorf("upsert exercises %s: list existing: %w", workoutLogID, err)
	}

	cs := workoutlog.Compare(existing, normalized)
	if !cs.HasChanges() {
		return UpsertResult{}, nil
	}

	var result UpsertResult

	if len(cs.ToDelete) > 0 {
		if err := s.exercises.DeleteExercises(ctx, workoutLogID, cs.ToDelete); err != nil {
			s.cache.CleanupID(workoutLogID)
			return result, fmt.Errorf("upsert exercises %s: delete: %w", workoutLogID, err)
		}
		result.Deleted = len(cs.ToDelete)
	}

	for _, entry := range cs.ToUpdate {
		if err := s.exercises.UpdateExercise(ctx, entry); err != nil {
			s.cache.CleanupID(workoutLogID)
			return result, fmt.Errorf("upsert exercises %s: update entry %s: %w", workoutLogID, entry.ID, err)
		}
		result.Updated++
	}

	insertedID := make(map[string]string, len(cs.ToInsert))
	if len(cs.ToInsert) > 0 {
		rows := s.insertRows(workoutLogID, normalized, cs.ToInsert, insertedID)
		if _, err := s.exercises.InsertExercises(ctx, rows); err != nil {
			if !persistence.IsConstraintViolation(err) {
				s.cache.CleanupID(workoutLogID)
				return result, fmt.Errorf("upsert exercises %s: insert: %w", workoutLogID, err)
			}
			// The batch inserted nothing; report which exercises collided
			// and let the caller decide on a retry or merge.
			clear(insertedID)
			result.Conflicts = s.insertConflicts(ctx, workoutLogID, cs.ToInsert, err)
			logger.Warn("exercise insert conflict",
				"conflicts", len(result.Conflicts), "error", err)
		} else {
			result.Inserted = len(rows)
		}
	}

	orderedIDs := desiredOrderIDs(existing, normalized, insertedID)
	moved, err := s.applyOrder(ctx, workoutLogID, orderedIDs, opts.VerifyOrder)
	if err != nil {
		s.cache.CleanupID(workoutLogID)
		return result, fmt.Errorf("upsert exercises %s: reconcile order: %w", workoutLogID, err)
	}
	result.OrderUpdated = moved

	s.refreshSnapshot(ctx, workoutLogID)
	return result, nil
}

// validateEntries rejects malformed input before any store call.
func validateEntries(workoutLogID string, desired []workoutlog.EntryInput) ([]workoutlog.EntryInput, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(workoutLogID) == "" {
		vErr.add("workoutLogId", "required")
	}
	for i, input := range desired {
		if strings.TrimSpace(input.ExerciseID) == "" {
			vErr.add(fmt.Sprintf("entries[%d].exerciseId", i), "required")
		}
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	normalized := make([]workoutlog.EntryInput, len(desired))
	for i, input := range desired {
		normalized[i] = workoutlog.Normalize(input)
	}
	return normalized, nil
}

// insertRows materializes the ToInsert bucket with fresh identifiers and the
// positions the entries occupy in the desired sequence. insertedID records
// the assignment keyed by exercise ID for order reconciliation.
func (s *LogService) insertRows(workoutLogID string, normalized []workoutlog.EntryInput, toInsert []workoutlog.EntryInput, insertedID map[string]string) []workoutlog.Entry {
	position := make(map[string]int, len(normalized))
	for i, input := range normalized {
		if input.ID == "" {
			position[input.ExerciseID] = i
		}
	}

	rows := make([]workoutlog.Entry, 0, len(toInsert))
	for _, input := range toInsert {
		id := s.newID()
		insertedID[input.ExerciseID] = id
		rows = append(rows, workoutlog.Entry{
			ID:           id,
			WorkoutLogID: workoutLogID,
			ExerciseID:   input.ExerciseID,
			SetCount:     input.SetCount,
			Reps:         input.Reps,
			Weights:      input.Weights,
			Completed:    input.Completed,
			Bodyweight:   input.Bodyweight,
			OrderIndex:   position[input.ExerciseID],
			Notes:        input.Notes,
		})
	}
	return rows
}

// insertConflicts resolves which desired inserts collided by re-querying the
// stored entries, the same compensating lookup the creation recovery uses.
func (s *LogService) insertConflicts(ctx context.Context, workoutLogID string, toInsert []workoutlog.EntryInput, cause error) []ExerciseConflict {
	taken := make(map[string]bool)
	if stored, err := s.exercises.ListExercises(ctx, workoutLogID); err == nil {
		for _, entry := range stored {
			taken[entry.ExerciseID] = true
		}
	}

	seen := make(map[string]bool, len(toInsert))
	var conflicts []ExerciseConflict
	for _, input := range toInsert {
		if taken[input.ExerciseID] || seen[input.ExerciseID] {
			conflicts = append(conflicts, ExerciseConflict{ExerciseID: input.ExerciseID, Err: cause})
		}
		seen[input.ExerciseID] = true
	}
	if len(conflicts) == 0 {
		// Could not attribute the collision; report the batch as a whole.
		conflicts = append(conflicts, ExerciseConflict{Err: cause})
	}
	return conflicts
}

// desiredOrderIDs renders the desired sequence as stored identifiers:
// matched entries keep their IDs, freshly inserted ones use their assigned
// IDs, and conflicted inserts are skipped because they do not exist.
func desiredOrderIDs(existing []workoutlog.Entry, normalized []workoutlog.EntryInput, insertedID map[string]string) []string {
	known := make(map[string]bool, len(existing))
	for _, entry := range existing {
		known[entry.ID] = true
	}

	ids := make([]string, 0, len(normalized))
	for _, input := range normalized {
		switch {
		case input.ID != "" && known[input.ID]:
			ids = append(ids, input.ID)
		case insertedID[input.ExerciseID] != "":
			ids = append(ids, insertedID[input.ExerciseID])
		}
	}
	return ids
}

// refreshSnapshot re-reads the stored entries into the cache entry holding
// this workout log, or drops the entry when the read fails.
func (s *LogService) refreshSnapshot(ctx context.Context, workoutLogID string) {
	key, ok := s.cache.KeyForID(workoutLogID)
	if !ok {
		return
	}
	stored, err := s.exercises.ListExercises(ctx, workoutLogID)
	if err != nil {
		s.cache.Cleanup(key)
		return
	}
	s.cache.Put(key, workoutLogID, stored)
}
