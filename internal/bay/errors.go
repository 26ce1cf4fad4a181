package bay

import "errors"

var (
	// ErrNotFound is returned when a bay or baymodel does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParameter is returned when the backend or validation rejects
	// submitted values. Callers must fix the input; nothing is retried.
	ErrInvalidParameter = errors.New("invalid parameter value")

	// ErrNotSupported is returned when a requested change cannot be applied,
	// e.g. a node count update that converged to a failed stack.
	ErrNotSupported = errors.New("operation not supported")

	// ErrConflict is returned when a record already exists or another
	// lifecycle operation is running for the same bay.
	ErrConflict = errors.New("conflict")
)
