package workoutlog

// Normalize returns a copy of the input with its per-set sequences padded or
// truncated to exactly SetCount elements. A non-positive SetCount is coerced
// to 1. Missing reps and weights pad with nil; missing completion flags pad
// with false, matching the stored representation.
func Normalize(input EntryInput) EntryInput {
	out := input
	if out.SetCount < 1 {
		out.SetCount = 1
	}
	out.Reps = fitIntPtrs(input.Reps, out.SetCount)
	out.Weights = fitFloatPtrs(input.Weights, out.SetCount)
	out.Completed = fitBools(input.Completed, out.SetCount)
	return out
}

// NormalizeEntry applies the same sequence fitting to a persisted entry,
// guarding comparisons against rows written before the padding rule existed.
func NormalizeEntry(entry Entry) Entry {
	out := entry
	if out.SetCount < 1 {
		out.SetCount = 1
	}
	out.Reps = fitIntPtrs(entry.Reps, out.SetCount)
	out.Weights = fitFloatPtrs(entry.Weights, out.SetCount)
	out.Completed = fitBools(entry.Completed, out.SetCount)
	return out
}

func fitIntPtrs(values []*int, size int) []*int {
	out := make([]*int, size)
	for i := 0; i < size && i < len(values); i++ {
		if values[i] != nil {
			copied := *values[i]
			out[i] = &copied
		}
	}
	return out
}

func fitFloatPtrs(values []*float64, size int) []*float64 {
	out := make([]*float64, size)
	for i := 0; i < size && i < len(values); i++ {
		if values[i] != nil {
			copied := *values[i]
			out[i] = &copied
		}
	}
	return out
}

func fitBools(values []bool, size int) []bool {
	out := make([]bool, size)
	for i := 0; i < size && i < len(values); i++ {
		out[i] = values[i]
	}
	return out
}
