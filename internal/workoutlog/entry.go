package workoutlog

// Entry represents one exercise's performance record persisted within a
// workout log. Reps, Weights, and Completed always hold exactly SetCount
// elements; missing reps and weights are nil, missing completion flags are
// false.
type Entry struct {
	ID           string
	WorkoutLogID string
	ExerciseID   string
	SetCount     int
	Reps         []*int
	Weights      []*float64
	Completed    []bool
	Bodyweight   *float64
	OrderIndex   int
	Notes        string
}

// EntryInput captures the caller supplied desired state of an exercise entry.
// ID is empty for entries that have never been persisted.
type EntryInput struct {
	ID         string
	ExerciseID string
	SetCount   int
	Reps       []*int
	Weights    []*float64
	Completed  []bool
	Bodyweight *float64
	Notes      string
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Reps = cloneIntPtrs(e.Reps)
	out.Weights = cloneFloatPtrs(e.Weights)
	out.Completed = cloneBools(e.Completed)
	out.Bodyweight = cloneFloatPtr(e.Bodyweight)
	return out
}

// CloneEntries returns a deep copy of the entry slice.
func CloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

func cloneIntPtrs(values []*int) []*int {
	if values == nil {
		return nil
	}
	out := make([]*int, len(values))
	for i, v := range values {
		if v != nil {
			copied := *v
			out[i] = &copied
		}
	}
	return out
}

func cloneFloatPtrs(values []*float64) []*float64 {
	if values == nil {
		return nil
	}
	out := make([]*float64, len(values))
	for i, v := range values {
		if v != nil {
			copied := *v
			out[i] = &copied
		}
	}
	return out
}

func cloneFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func cloneBools(values []bool) []bool {
	if values == nil {
		return nil
	}
	out := make([]bool, len(values))
	copy(out, values)
	return out
}
