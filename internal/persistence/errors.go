package persistence

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConstraintViolation is the sentinel matched by errors.Is for any
	// uniqueness conflict reported by a store implementation.
	ErrConstraintViolation = errors.New("persistence: unique constraint violation")
)

// ConstraintViolationError reports a uniqueness conflict together with the
// violated key, so callers can distinguish a duplicate workout slot from a
// duplicate exercise entry.
type ConstraintViolationError struct {
	Table  string
	Fields []string
	Err    error
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("persistence: unique constraint violation on %s", e.Table)
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.Fields, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying store error.
func (e *ConstraintViolationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrConstraintViolation) match the rich type.
func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation reports whether err signals a uniqueness conflict.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}
