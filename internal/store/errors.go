package store

import "fmt"

// Kind classifies a store failure so handlers can map it to an HTTP status.
type Kind string

const (
	// KindNotFound means an id or slug did not resolve to a record.
	KindNotFound Kind = "not_found"
	// KindConflict means the operation clashes with current state, e.g. a
	// permit that is already generated or a slug that is already registered.
	KindConflict Kind = "conflict"
	// KindInsufficientAllocation means the requested volume exceeds the
	// remaining balance; Remaining carries the balance for display.
	KindInsufficientAllocation Kind = "insufficient_allocation"
	// KindInvalidInput means required fields are missing or malformed.
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured failure the store reports to its callers. Category
// and Remaining are only set on allocation-exceeded errors.
type Error struct {
	Kind      Kind
	Message   string
	Category  string
	Remaining float64
}

func (e *Error) Error() string {
	return e.Message
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error.
func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds an invalid-input error.
func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InsufficientAllocation builds the allocation-exceeded error in the form the
// UI renders directly.
func InsufficientAllocation(category string, remaining, required float64) *Error {
	return &Error{
		Kind:      KindInsufficientAllocation,
		Message:   fmt.Sprintf("insufficient %s allocation: available %.0fL, required %.0fL", category, remaining, required),
		Category:  category,
		Remaining: remaining,
	}
}

// ErrKind extracts the Kind from an error, or "" when the error did not come
// from the store.
func ErrKind(err error) Kind {
	if se, ok := err.(*Error); ok {
		return se.Kind
	}
	return ""
}
