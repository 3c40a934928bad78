package workoutlog

import (
	"slices"
	"testing"
)

func storedEntry(id, exerciseID string, orderIndex int, reps ...int) Entry {
	entry := Entry{
		ID:           id,
		WorkoutLogID: "log-1",
		ExerciseID:   exerciseID,
		SetCount:     len(reps),
		OrderIndex:   orderIndex,
	}
	for _, r := range reps {
		copied := r
		entry.Reps = append(entry.Reps, &copied)
	}
	return NormalizeEntry(entry)
}

func inputFromEntry(entry Entry) EntryInput {
	return EntryInput{
		ID:         entry.ID,
		ExerciseID: entry.ExerciseID,
		SetCount:   entry.SetCount,
		Reps:       cloneIntPtrs(entry.Reps),
		Weights:    cloneFloatPtrs(entry.Weights),
		Completed:  cloneBools(entry.Completed),
		Bodyweight: cloneFloatPtr(entry.Bodyweight),
		Notes:      entry.Notes,
	}
}

func TestCompareNoChanges(t *testing.T) {
	existing := []Entry{
		storedEntry("ex-1", "bench-press", 0, 10, 8),
		storedEntry("ex-2", "squat", 1, 5, 5, 5),
	}
	desired := []EntryInput{inputFromEntry(existing[0]), inputFromEntry(existing[1])}

	cs := Compare(existing, desired)

	if cs.HasChanges() {
		t.Fatalf("expected no changes, got %+v", cs)
	}
}

func TestCompareMinimalDiff(t *testing.T) {
	a := storedEntry("ex-a", "bench-press", 0, 10, 8)
	b := storedEntry("ex-b", "squat", 1, 5, 5)
	c := storedEntry("ex-c", "row", 2, 12)

	changedA := inputFromEntry(a)
	changedA.Notes = "felt heavy"
	newD := EntryInput{ExerciseID: "curl", SetCount: 3}

	cs := Compare([]Entry{a, b, c}, []EntryInput{changedA, inputFromEntry(b), newD})

	if len(cs.ToUpdate) != 1 || cs.ToUpdate[0].ID != "ex-a" {
		t.Fatalf("expected exactly ex-a updated, got %+v", cs.ToUpdate)
	}
	if cs.ToUpdate[0].Notes != "felt heavy" {
		t.Fatalf("expected desired fields merged into update, got %q", cs.ToUpdate[0].Notes)
	}
	if len(cs.ToInsert) != 1 || cs.ToInsert[0].ExerciseID != "curl" {
		t.Fatalf("expected exactly curl inserted, got %+v", cs.ToInsert)
	}
	if !slices.Equal(cs.ToDelete, []string{"ex-c"}) {
		t.Fatalf("expected exactly ex-c deleted, got %v", cs.ToDelete)
	}
	if cs.OrderChanged {
		t.Fatal("expected surviving order unchanged")
	}
}

func TestCompareUnknownIDClassifiesInsert(t *testing.T) {
	existing := []Entry{storedEntry("ex-1", "bench-press", 0, 10)}
	desired := []EntryInput{
		inputFromEntry(existing[0]),
		{ID: "ex-gone", ExerciseID: "squat", SetCount: 2},
	}

	cs := Compare(existing, desired)

	if len(cs.ToInsert) != 1 || cs.ToInsert[0].ExerciseID != "squat" {
		t.Fatalf("expected stale ID treated as insert, got %+v", cs.ToInsert)
	}
	if len(cs.ToDelete) != 0 {
		t.Fatalf("expected no deletes, got %v", cs.ToDelete)
	}
}

func TestCompareOrderChanged(t *testing.T) {
	a := storedEntry("ex-a", "bench-press", 0, 10)
	b := storedEntry("ex-b", "squat", 1, 5)

	cs := Compare([]Entry{a, b}, []EntryInput{inputFromEntry(b), inputFromEntry(a)})

	if !cs.OrderChanged {
		t.Fatal("expected order change detected")
	}
	if len(cs.ToInsert) != 0 || len(cs.ToUpdate) != 0 || len(cs.ToDelete) != 0 {
		t.Fatalf("expected pure reorder, got %+v", cs)
	}
	if !cs.HasChanges() {
		t.Fatal("expected HasChanges to include order changes")
	}
}

func TestCompareDeleteAloneDoesNotFlipOrder(t *testing.T) {
	a := storedEntry("ex-a", "bench-press", 0, 10)
	b := storedEntry("ex-b", "squat", 1, 5)
	c := storedEntry("ex-c", "row", 2, 12)

	cs := Compare([]Entry{a, b, c}, []EntryInput{inputFromEntry(a), inputFromEntry(c)})

	if cs.OrderChanged {
		t.Fatal("expected order unchanged when only a middle entry is removed")
	}
	if !slices.Equal(cs.ToDelete, []string{"ex-b"}) {
		t.Fatalf("expected ex-b deleted, got %v", cs.ToDelete)
	}
}

func TestComparePaddingDifferencesAreNotChanges(t *testing.T) {
	stored := storedEntry("ex-1", "bench-press", 0, 10, 8, 6)
	desired := inputFromEntry(stored)
	// Same logical content, shorter raw sequences.
	desired.Completed = nil
	desired.Weights = desired.Weights[:0]

	cs := Compare([]Entry{stored}, []EntryInput{desired})

	if cs.HasChanges() {
		t.Fatalf("expected padding-only difference ignored, got %+v", cs)
	}
}

func TestCompareMatchingIsOrderIndependent(t *testing.T) {
	a := storedEntry("ex-a", "bench-press", 0, 10)
	b := storedEntry("ex-b", "squat", 1, 5)

	changedB := inputFromEntry(b)
	changedB.Bodyweight = floatPtr(82.5)

	cs := Compare([]Entry{a, b}, []EntryInput{changedB, inputFromEntry(a)})

	if len(cs.ToUpdate) != 1 || cs.ToUpdate[0].ID != "ex-b" {
		t.Fatalf("expected ex-b updated regardless of position, got %+v", cs.ToUpdate)
	}
	if !cs.OrderChanged {
		t.Fatal("expected reordered sequence flagged")
	}
}
