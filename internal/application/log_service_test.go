package application

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/example/workout-tracker/internal/logging"
	"github.com/example/workout-tracker/internal/workoutlog"
)

func TestNewLogServiceAppliesDefaults(t *testing.T) {
	logs := newLogStoreStub()
	service := NewLogService(logs, newExerciseStoreStub(), nil, nil)

	if service.reorderBatchThreshold != defaultReorderBatchThreshold {
		t.Fatalf("expected default threshold, got %d", service.reorderBatchThreshold)
	}
	if service.reorderBatchSize != defaultReorderBatchSize {
		t.Fatalf("expected default batch size, got %d", service.reorderBatchSize)
	}

	id, err := service.EnsureDraft(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ensure draft: %v", err)
	}
	if id == "" {
		t.Fatal("expected the default id generator to produce an identifier")
	}
	if row := logs.logs[id]; row.CreatedAt.IsZero() {
		t.Fatal("expected the default clock to stamp creation")
	}
}

func TestServicePrefersContextLogger(t *testing.T) {
	var base bytes.Buffer
	service := NewLogServiceWithLogger(newLogStoreStub(), newExerciseStoreStub(),
		sequentialIDs("id"), fixedClock(time.Date(2025, time.April, 7, 6, 0, 0, 0, time.UTC)),
		logging.NewLogger(&base, slog.LevelDebug))

	var scoped bytes.Buffer
	ctx := logging.ContextWithLogger(context.Background(),
		logging.NewLogger(&scoped, slog.LevelDebug))

	// An invalid autosave logs through whichever logger is in scope.
	_, err := service.SaveWorkout(ctx, SaveWorkoutParams{
		Entries: []workoutlog.EntryInput{{ExerciseID: "bench-press", SetCount: 1}},
	})
	if !IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}

	if !strings.Contains(scoped.String(), "autosave could not resolve slot") {
		t.Fatalf("expected the context logger used, got %q", scoped.String())
	}
	if !strings.Contains(scoped.String(), `"kind":"validation"`) {
		t.Fatalf("expected the error kind labelled, got %q", scoped.String())
	}
	if base.Len() != 0 {
		t.Fatalf("expected the base logger bypassed, got %q", base.String())
	}
}
