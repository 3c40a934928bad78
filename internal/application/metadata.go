package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/workout-tracker/internal/persistence"
)

// MetadataPatch carries the optional workout log fields a metadata save may
// touch. Only fields on the allow-list exist here; anything else never
// reaches the store.
type MetadataPatch struct {
	Name            *string
	Notes           *string
	DurationMinutes *int
	IsDraft         *bool
	IsFinished      *bool
	CompletedAt     *time.Time
}

// IsZero reports whether the patch carries no fields.
func (p MetadataPatch) IsZero() bool {
	return p.Name == nil && p.Notes == nil && p.DurationMinutes == nil &&
		p.IsDraft == nil && p.IsFinished == nil && p.CompletedAt == nil
}

func (p MetadataPatch) storePatch() persistence.WorkoutLogPatch {
	return persistence.WorkoutLogPatch{
		Name:            p.Name,
		Notes:           p.Notes,
		DurationMinutes: p.DurationMinutes,
		IsDraft:         p.IsDraft,
		IsFinished:      p.IsFinished,
		CompletedAt:     p.CompletedAt,
	}
}

// MetadataPatchFromFields builds a patch from loosely typed field values,
// rejecting any field outside the allow-list before the store is involved.
func MetadataPatchFromFields(fields map[string]any) (MetadataPatch, error) {
	var patch MetadataPatch
	vErr := &ValidationError{}

	for field, value := range fields {
		switch field {
		case "name":
			patch.Name = stringField(vErr, field, value)
		case "notes":
			patch.Notes = stringField(vErr, field, value)
		case "duration":
			patch.DurationMinutes = intField(vErr, field, value)
		case "is_draft":
			patch.IsDraft = boolField(vErr, field, value)
		case "is_finished":
			patch.IsFinished = boolField(vErr, field, value)
		case "completed_date":
			patch.CompletedAt = timeField(vErr, field, value)
		default:
			vErr.add(field, "not an allowed metadata field")
		}
	}

	if vErr.HasErrors() {
		return MetadataPatch{}, vErr
	}
	return patch, nil
}

// SaveMetadata updates only the allow-listed metadata fields of a workout
// log. Exercise entries are untouched.
func (s *LogService) SaveMetadata(ctx context.Context, workoutLogID string, patch MetadataPatch) (persistence.WorkoutLog, error) {
	vErr := &ValidationError{}
	if strings.TrimSpace(workoutLogID) == "" {
		vErr.add("workoutLogId", "required")
	}
	if patch.IsZero() {
		vErr.add("patch", "at least one field required")
	}
	if vErr.HasErrors() {
		return persistence.WorkoutLog{}, vErr
	}

	updated, err := s.logs.UpdateWorkoutLog(ctx, workoutLogID, patch.storePatch())
	if err != nil {
		s.cache.CleanupID(workoutLogID)
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.WorkoutLog{}, ErrNotFound
		}
		return persistence.WorkoutLog{}, fmt.Errorf("save metadata %s: %w", workoutLogID, err)
	}
	return updated, nil
}

// SaveMetadataFields is the loosely typed entry point for callers holding a
// field map; it validates the allow-list, then delegates to SaveMetadata.
func (s *LogService) SaveMetadataFields(ctx context.Context, workoutLogID string, fields map[string]any) (persistence.WorkoutLog, error) {
	patch, err := MetadataPatchFromFields(fields)
	if err != nil {
		return persistence.WorkoutLog{}, err
	}
	return s.SaveMetadata(ctx, workoutLogID, patch)
}

// SaveWorkout is the autosave flow for a program slot: resolve the slot row,
// apply metadata, then reconcile the exercise list.
func (s *LogService) SaveWorkout(ctx context.Context, params SaveWorkoutParams) (SaveWorkoutResult, error) {
	logger := serviceLogger(ctx, s.logger, "saveWorkout",
		"owner_id", params.OwnerID, "program_id", params.ProgramID)

	id, err := s.EnsureExists(ctx, params.OwnerID, params.ProgramID, params.WeekIndex, params.DayIndex)
	if err != nil {
		logger.Error("autosave could not resolve slot", "kind", ErrorKind(err), "error", err)
		return SaveWorkoutResult{}, err
	}

	if !params.Metadata.IsZero() {
		if _, err := s.SaveMetadata(ctx, id, params.Metadata); err != nil {
			logger.Error("autosave metadata write failed", "kind", ErrorKind(err), "error", err)
			return SaveWorkoutResult{WorkoutLogID: id}, err
		}
	}

	upsert, err := s.UpsertExercises(ctx, id, params.Entries, params.Options)
	if err != nil {
		logger.Error("autosave entry reconciliation failed", "kind", ErrorKind(err), "error", err)
		return SaveWorkoutResult{WorkoutLogID: id}, err
	}
	return SaveWorkoutResult{WorkoutLogID: id, Upsert: upsert}, nil
}

// FinishWorkout reconciles the closing exercise list, then marks the session
// finished with a completion timestamp. The draft flag is cleared so a
// finished ad-hoc session no longer blocks new drafts.
func (s *LogService) FinishWorkout(ctx context.Context, params FinishWorkoutParams) (FinishWorkoutResult, error) {
	upsert, err := s.UpsertExercises(ctx, params.WorkoutLogID, params.Entries, params.Options)
	if err != nil {
		return FinishWorkoutResult{}, err
	}

	finished := true
	draft := false
	completedAt := s.now()
	patch := MetadataPatch{
		IsFinished:      &finished,
		IsDraft:         &draft,
		CompletedAt:     &completedAt,
		DurationMinutes: params.DurationMinutes,
		Notes:           params.Notes,
	}
	log, err := s.SaveMetadata(ctx, params.WorkoutLogID, patch)
	if err != nil {
		return FinishWorkoutResult{Upsert: upsert}, err
	}
	return FinishWorkoutResult{Log: log, Upsert: upsert}, nil
}

func stringField(vErr *ValidationError, field string, value any) *string {
	v, ok := value.(string)
	if !ok {
		vErr.add(field, "must be a string")
		return nil
	}
	return &v
}

func intField(vErr *ValidationError, field string, value any) *int {
	switch v := value.(type) {
	case int:
		return &v
	case int64:
		converted := int(v)
		return &converted
	case float64:
		converted := int(v)
		return &converted
	default:
		vErr.add(field, "must be a number")
		return nil
	}
}

func boolField(vErr *ValidationError, field string, value any) *bool {
	v, ok := value.(bool)
	if !ok {
		vErr.add(field, "must be a boolean")
		return nil
	}
	return &v
}

func timeField(vErr *ValidationError, field string, value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			vErr.add(field, "must be an RFC 3339 timestamp")
			return nil
		}
		return &parsed
	default:
		vErr.add(field, "must be a timestamp")
		return nil
	}
}
