package records

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the records service. The gateway translates
// these into HTTP statuses; nothing downstream retries on them.
var (
	// ErrNotFound is returned when no live record has the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrConflict is returned when a write would violate the isbn
	// uniqueness constraint.
	ErrConflict = errors.New("isbn already in use")

	// ErrUnavailable is returned when the store is unreachable or the
	// call exceeded its deadline. Reads are safe to retry.
	ErrUnavailable = errors.New("store unavailable")

	// ErrDuplicateRequest is returned by the repository when an insert
	// collides on the idempotency key. The service resolves it by
	// returning the record created by the first request.
	ErrDuplicateRequest = errors.New("duplicate idempotency key")
)

// FieldError describes a single field that failed semantic validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidArgumentError reports semantically invalid input. The caller
// must fix the request; it is never retried.
type InvalidArgumentError struct {
	Fields []FieldError
}

func (e *InvalidArgumentError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid argument"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid argument: " + strings.Join(parts, "; ")
}

func invalidArgument(field, message string) error {
	return &InvalidArgumentError{Fields: []FieldError{{Field: field, Message: message}}}
}
