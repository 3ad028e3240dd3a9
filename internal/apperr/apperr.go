package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine error so handlers can pick an HTTP status and
// callers know whether a retry can help.
type Kind int

const (
	// Validation means the input itself is bad (empty selection, missing
	// unit assignments). Fix the input and resend.
	Validation Kind = iota
	// Precondition means the entity is not in a state that permits the
	// operation (wrong sheet status, already-joined item, employee already
	// in an open flow). Retrying the same call will keep failing.
	Precondition
	// NotFound means an id resolved to nothing.
	NotFound
	// Conflict means a concurrent writer got there first; the whole
	// operation was rolled back and is safe to retry as-is.
	Conflict
)

// Error carries the kind, a caller-facing message and, where the failure is
// about a subset of entities, the ids of that subset so the caller can show
// exactly which members blocked the operation.
type Error struct {
	Kind    Kind
	Message string
	IDs     []uint
}

func (e *Error) Error() string {
	if len(e.IDs) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprint(id)
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithIDs attaches the offending entity ids.
func (e *Error) WithIDs(ids []uint) *Error {
	e.IDs = ids
	return e
}

// KindOf returns the kind of err if it is an engine error, and ok=false for
// anything else (driver errors, programming errors).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
