package workoutlog

import "testing"

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizePadsAndTruncatesToSetCount(t *testing.T) {
	input := EntryInput{
		ExerciseID: "bench-press",
		SetCount:   4,
		Reps:       []*int{intPtr(10), intPtr(8)},
		Weights:    []*float64{floatPtr(100), floatPtr(110), floatPtr(120), floatPtr(130), floatPtr(140)},
		Completed:  []bool{true, true, false},
	}

	got := Normalize(input)

	if got.SetCount != 4 {
		t.Fatalf("expected set count 4, got %d", got.SetCount)
	}
	if len(got.Reps) != 4 || len(got.Weights) != 4 || len(got.Completed) != 4 {
		t.Fatalf("expected all sequences fitted to 4, got reps=%d weights=%d completed=%d",
			len(got.Reps), len(got.Weights), len(got.Completed))
	}
	if *got.Reps[0] != 10 || *got.Reps[1] != 8 {
		t.Fatalf("expected supplied reps preserved, got %v %v", got.Reps[0], got.Reps[1])
	}
	if got.Reps[2] != nil || got.Reps[3] != nil {
		t.Fatalf("expected missing reps padded with nil")
	}
	if *got.Weights[3] != 130 {
		t.Fatalf("expected weights truncated at 130, got %v", *got.Weights[3])
	}
	if got.Completed[2] || got.Completed[3] {
		t.Fatalf("expected missing completion flags padded with false, got %v", got.Completed)
	}
}

func TestNormalizeCoercesNonPositiveSetCount(t *testing.T) {
	for _, setCount := range []int{0, -3} {
		got := Normalize(EntryInput{ExerciseID: "squat", SetCount: setCount})
		if got.SetCount != 1 {
			t.Fatalf("set count %d: expected coercion to 1, got %d", setCount, got.SetCount)
		}
		if len(got.Reps) != 1 || len(got.Weights) != 1 || len(got.Completed) != 1 {
			t.Fatalf("set count %d: expected sequences of length 1", setCount)
		}
	}
}

func TestNormalizeDoesNotAliasInputSlices(t *testing.T) {
	reps := []*int{intPtr(5)}
	input := EntryInput{ExerciseID: "deadlift", SetCount: 1, Reps: reps}

	got := Normalize(input)
	*reps[0] = 99

	if *got.Reps[0] != 5 {
		t.Fatalf("expected normalized reps decoupled from input, got %d", *got.Reps[0])
	}
}
