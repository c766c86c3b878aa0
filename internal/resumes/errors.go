package resumes

import "errors"

var (
	// ErrNotFound is returned when a resume does not exist for the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when request data fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
