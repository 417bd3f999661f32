package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrPoolUnreadable means the word pool source could not be opened or read.
	// It is fatal for the request and never retried.
	ErrPoolUnreadable = errors.New("word pool unreadable")

	// ErrEmbeddingUnavailable means the embedding backend failed for a token
	// after all attempts. The token is excluded from classification.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrDegenerateComparison marks a comparison that has no meaningful score
	// (zero-norm vector, mismatched dimensions, empty token).
	ErrDegenerateComparison = errors.New("degenerate comparison")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
