package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/example/workout-tracker/internal/workoutlog"
)

type orderMove struct {
	id       string
	position int
}

// Reorder applies the desired entry sequence to a workout log, updating only
// the entries whose stored position actually differs.
func (s *LogService) Reorder(ctx context.Context, workoutLogID string, orderedIDs []string, verify bool) (ReorderResult, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(workoutLogID) == "" {
		vErr.add("workoutLogId", "required")
	}
	for i, id := range orderedIDs {
		if strings.TrimSpace(id) == "" {
			vErr.add(fmt.Sprintf("orderedIds[%d]", i), "required")
		}
	}
	if vErr.HasErrors() {
		return ReorderResult{}, vErr
	}

	moved, err := s.applyOrder(ctx, workoutLogID, orderedIDs, verify)
	if err != nil {
		s.cache.CleanupID(workoutLogID)
		return ReorderResult{}, fmt.Errorf("reorder %s: %w", workoutLogID, err)
	}
	if moved > 0 {
		s.refreshSnapshot(ctx, workoutLogID)
	}
	return ReorderResult{Updated: moved}, nil
}

// applyOrder issues position updates for the entries whose order index
// differs from their place in orderedIDs. Small move sets run sequentially
// for precise error attribution; larger ones run in bounded parallel groups.
// Identifiers not present in the store are ignored.
func (s *LogService) applyOrder(ctx context.Context, workoutLogID string, orderedIDs []string, verify bool) (int, error) {
	existing, err := s.exercises.ListExercises(ctx, workoutLogID)
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}
	current := make(map[string]int, len(existing))
	for _, entry := range existing {
		current[entry.ID] = entry.OrderIndex
	}

	var moves []orderMove
	for position, id := range orderedIDs {
		stored, ok := current[id]
		if !ok || stored == position {
			continue
		}
		moves = append(moves, orderMove{id: id, position: position})
	}
	if len(moves) == 0 {
		return 0, nil
	}

	if len(moves) <= s.reorderBatchThreshold {
		for _, move := range moves {
			if err := s.exercises.UpdateExerciseOrder(ctx, move.id, move.position); err != nil {
				return 0, fmt.Errorf("move entry %s to %d: %w", move.id, move.position, err)
			}
		}
	} else if err := s.applyOrderParallel(ctx, moves); err != nil {
		return 0, err
	}

	if verify {
		s.verifyOrder(ctx, workoutLogID, orderedIDs)
	}
	return len(moves), nil
}

// applyOrderParallel issues the moves in groups of bounded size. Each group
// completes before the next starts; the first error wins.
func (s *LogService) applyOrderParallel(ctx context.Context, moves []orderMove) error {
	for start := 0; start < len(moves); start += s.reorderBatchSize {
		end := start + s.reorderBatchSize
		if end > len(moves) {
			end = len(moves)
		}
		group := moves[start:end]

		var (
			wg       sync.WaitGroup
			errMu    sync.Mutex
			groupErr error
		)
		for _, move := range group {
			wg.Add(1)
			go func(move orderMove) {
				defer wg.Done()
				if err := s.exercises.UpdateExerciseOrder(ctx, move.id, move.position); err != nil {
					errMu.Lock()
					if groupErr == nil {
						groupErr = fmt.Errorf("move entry %s to %d: %w", move.id, move.position, err)
					}
					errMu.Unlock()
				}
			}(move)
		}
		wg.Wait()
		if groupErr != nil {
			return groupErr
		}
	}
	return nil
}

// verifyOrder re-reads the store and warns when the final order does not
// match the desired sequence. The individual moves already committed, so a
// mismatch is logged rather than raised.
func (s *LogService) verifyOrder(ctx context.Context, workoutLogID string, orderedIDs []string) {
	logger := serviceLogger(ctx, s.logger, "verifyOrder", "workout_log_id", workoutLogID)

	stored, err := s.exercises.ListExercises(ctx, workoutLogID)
	if err != nil {
		logger.Warn("order verification read failed", "error", err)
		return
	}
	if !orderMatches(stored, orderedIDs) {
		logger.Warn("stored order does not match desired order",
			"desired", orderedIDs, "stored", entryIDs(stored))
	}
}

func orderMatches(stored []workoutlog.Entry, orderedIDs []string) bool {
	if len(stored) != len(orderedIDs) {
		return false
	}
	for i, entry := range stored {
		if entry.ID != orderedIDs[i] {
			return false
		}
	}
	return true
}

func entryIDs(entries []workoutlog.Entry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}
