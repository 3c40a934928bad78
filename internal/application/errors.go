package application

import "errors"

var (
	// ErrNotFound is returned when the requested workout log does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRecoveryLookupFailed is returned when a creation conflict could not
	// be recovered because the conflicting row was gone by the time it was
	// re-queried. The store offers no transactional guarantee, so this is
	// surfaced explicitly instead of retrying.
	ErrRecoveryLookupFailed = errors.New("application: conflicting workout log not found during recovery")
)

// ValidationError captures field level validation issues that callers can
// surface to users. It is returned before any store call is made.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// IsInvalidInput reports whether err represents rejected caller input.
func IsInvalidInput(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
