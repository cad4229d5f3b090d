package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a recall grade is outside 0..5.
	ErrInvalidQuality = errors.New("invalid recall quality")

	// ErrInvalidStatus is returned when a card status is not one of the known values.
	ErrInvalidStatus = errors.New("invalid card status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrInvalidState is the parent of every state machine violation below.
	ErrInvalidState = errors.New("invalid state")

	// ErrSessionNotInProgress is returned when grading against a completed or
	// abandoned session.
	ErrSessionNotInProgress = fmt.Errorf("%w: session is not in progress", ErrInvalidState)

	// ErrItemAlreadyGraded is returned when a session item already carries a quality.
	ErrItemAlreadyGraded = fmt.Errorf("%w: session item already graded", ErrInvalidState)

	// ErrSessionFull is returned when reviewedCount would exceed cardCount.
	ErrSessionFull = fmt.Errorf("%w: every card in the session has been reviewed", ErrInvalidState)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err defaults
// to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
