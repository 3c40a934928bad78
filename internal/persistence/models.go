package persistence

import "time"

// WorkoutLog represents one logical workout session stored in persistence.
// ProgramID, WeekIndex, and DayIndex are nil for ad-hoc sessions.
type WorkoutLog struct {
	ID              string
	OwnerID         string
	ProgramID       *string
	WeekIndex       *int
	DayIndex        *int
	Name            string
	Notes           string
	DurationMinutes *int
	IsDraft         bool
	IsFinished      bool
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkoutLogKey is the natural key identifying a program workout slot. All
// three program coordinates must be set; ad-hoc drafts are addressed through
// FindDraftWorkoutLog instead.
type WorkoutLogKey struct {
	OwnerID   string
	ProgramID string
	WeekIndex int
	DayIndex  int
}

// WorkoutLogPatch carries the optional metadata fields of an update. Nil
// fields are left untouched by the store.
type WorkoutLogPatch struct {
	Name            *string
	Notes           *string
	DurationMinutes *int
	IsDraft         *bool
	IsFinished      *bool
	CompletedAt     *time.Time
}

// IsZero reports whether the patch carries no fields.
func (p WorkoutLogPatch) IsZero() bool {
	return p.Name == nil && p.Notes == nil && p.DurationMinutes == nil &&
		p.IsDraft == nil && p.IsFinished == nil && p.CompletedAt == nil
}

// WorkoutLogFilter narrows workout log listings. AfterID enables keyset
// pagination ordered by identifier.
type WorkoutLogFilter struct {
	OwnerID string
	AfterID string
	Limit   int
}
