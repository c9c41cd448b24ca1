package prescription

import "errors"

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	ErrNotFound = errors.New("prescription not found")

	// ErrDuplicateID is returned by a Repository when the primary key is
	// already taken. The service treats it as a retryable generation failure.
	ErrDuplicateID = errors.New("prescription id already exists")

	// ErrIDExhausted is returned when every generation attempt collided.
	ErrIDExhausted = errors.New("could not allocate a unique prescription id")

	// ErrValidation wraps input problems detected before storage.
	ErrValidation = errors.New("invalid prescription")
)

// ErrIncomplete marks a record that exists but lacks a field the document
// layout cannot substitute, such as the signing doctor's name.
var ErrIncomplete = errors.New("prescription incomplete for rendering")
