package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores for lookups of unknown ids.
var ErrNotFound = errors.New("not found")

// ValidationError reports a structural invariant violation in caller input.
// It is never retried; the caller must fix the request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

// ReferentialConflict reports a delete blocked by existing references.
type ReferentialConflict struct {
	Reason string
}

func (e *ReferentialConflict) Error() string { return "referential conflict: " + e.Reason }

// StaleReferenceError reports that a draft references an account or category
// that was disabled or removed since the draft was last edited. The draft is
// preserved for re-editing.
type StaleReferenceError struct {
	Reason string
}

func (e *StaleReferenceError) Error() string { return "stale reference: " + e.Reason }

// InvalidStateError reports an operation that is illegal for the draft's
// current lifecycle state.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return "invalid state: " + e.Reason }

// StoreBusyError is surfaced after the store retry budget is exhausted.
type StoreBusyError struct {
	Attempts int
	Err      error
}

func (e *StoreBusyError) Error() string {
	return fmt.Sprintf("store busy after %d attempts: %v", e.Attempts, e.Err)
}

func (e *StoreBusyError) Unwrap() error { return e.Err }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
