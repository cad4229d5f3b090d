package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrUnauthenticated is returned when a mutation is attempted anonymously.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnsupportedLanguage is returned for a language outside the configured set.
	// API layer should map this to HTTP 400 Bad Request.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidDays is returned when a daily stats window is outside 1..MaxStatDays.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidDays = errors.New("invalid number of days")
)

// ServiceError is a custom error type for service errors.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a ServiceError for a card service operation.
func NewCardServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "card", Operation: operation, Message: message, Err: err}
}

// NewProgressServiceError creates a ServiceError for a progress service operation.
func NewProgressServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "progress", Operation: operation, Message: message, Err: err}
}
