package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidRound     = errors.New("invalid round")
	ErrStrategyNotFound = errors.New("strategy not found")
	ErrEmptyHistory     = errors.New("history is empty")
	ErrNotFound         = errors.New("record not found")
)

// ValidationError describes a single failed round invariant.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalidRound).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRound
}
