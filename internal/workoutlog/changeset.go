package workoutlog

import "slices"

// ChangeSet is the minimal edit script that turns an existing entry set into
// the desired one. Entries in ToUpdate carry the matched identifier and the
// stored order index; position changes are reported through OrderChanged and
// applied separately.
type ChangeSet struct {
	ToInsert     []EntryInput
	ToUpdate     []Entry
	ToDelete     []string
	OrderChanged bool
}

// HasChanges reports whether applying the change set would touch the store.
func (c ChangeSet) HasChanges() bool {
	return len(c.ToInsert) > 0 || len(c.ToUpdate) > 0 || len(c.ToDelete) > 0 || c.OrderChanged
}

// Compare computes the minimal edit script between the stored entries and the
// caller supplied desired entries. Desired entries match stored ones by ID;
// a desired entry without an ID, or whose ID is unknown, is an insert. Stored
// entries absent from the desired set are deletes. Matching is
// order-independent; OrderChanged is set iff the matched IDs appear in a
// different sequence than the surviving stored order.
//
// Both sides are normalized before field comparison so that padding
// differences never register as changes.
func Compare(existing []Entry, desired []EntryInput) ChangeSet {
	byID := make(map[string]Entry, len(existing))
	for _, e := range existing {
		byID[e.ID] = e
	}

	var cs ChangeSet
	matched := make(map[string]bool, len(existing))
	matchedSeq := make([]string, 0, len(desired))

	for _, d := range desired {
		if d.ID != "" {
			if e, ok := byID[d.ID]; ok {
				matched[d.ID] = true
				matchedSeq = append(matchedSeq, d.ID)
				if !entryMatchesInput(e, d) {
					cs.ToUpdate = append(cs.ToUpdate, applyInput(e, d))
				}
				continue
			}
		}
		cs.ToInsert = append(cs.ToInsert, Normalize(d))
	}

	survivingSeq := make([]string, 0, len(existing))
	for _, e := range existing {
		if matched[e.ID] {
			survivingSeq = append(survivingSeq, e.ID)
			continue
		}
		cs.ToDelete = append(cs.ToDelete, e.ID)
	}

	cs.OrderChanged = !slices.Equal(matchedSeq, survivingSeq)
	return cs
}

// entryMatchesInput reports deep equality between a stored entry and the
// desired input over every caller-editable field.
func entryMatchesInput(entry Entry, input EntryInput) bool {
	e := NormalizeEntry(entry)
	d := Normalize(input)
	if e.ExerciseID != d.ExerciseID || e.SetCount != d.SetCount || e.Notes != d.Notes {
		return false
	}
	if !floatPtrsEqual(e.Bodyweight, d.Bodyweight) {
		return false
	}
	if !intPtrSlicesEqual(e.Reps, d.Reps) {
		return false
	}
	if !floatPtrSlicesEqual(e.Weights, d.Weights) {
		return false
	}
	return slices.Equal(e.Completed, d.Completed)
}

// applyInput merges the desired field values onto the stored entry, keeping
// its identity and order index.
func applyInput(entry Entry, input EntryInput) Entry {
	d := Normalize(input)
	out := entry.Clone()
	out.ExerciseID = d.ExerciseID
	out.SetCount = d.SetCount
	out.Reps = d.Reps
	out.Weights = d.Weights
	out.Completed = d.Completed
	out.Bodyweight = d.Bodyweight
	out.Notes = d.Notes
	return out
}

func intPtrSlicesEqual(a, b []*int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		switch {
		case a[i] == nil && b[i] == nil:
		case a[i] == nil || b[i] == nil:
			return false
		case *a[i] != *b[i]:
			return false
		}
	}
	return true
}

func floatPtrSlicesEqual(a, b []*float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatPtrsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func floatPtrsEqual(a, b *float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
