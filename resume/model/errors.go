package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInvariant matches every *InvariantError.
	ErrInvariant = errors.New("ordering invariant violated")
)

// ValidationError reports a user-supplied value rejected at the mutation boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvariantError reports a caller passing data that would corrupt ordering,
// such as a reorder sequence that is not a permutation of the current items.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
