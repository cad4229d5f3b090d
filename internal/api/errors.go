package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/auth"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/review"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, review.ErrUnauthenticated),
		errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, review.ErrItemNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case isBadRequest(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

var badRequestErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidQuality,
	domain.ErrInvalidStatus,
	domain.ErrEmptyCardLanguage,
	domain.ErrEmptyCardTerm,
	domain.ErrEmptyCardLearnerID,
	domain.ErrInvalidEase,
	domain.ErrInvalidInterval,
	domain.ErrInvalidReviews,
	review.ErrInvalidLimit,
	review.ErrUnsupportedLanguage,
	service.ErrUnsupportedLanguage,
	service.ErrInvalidDays,
	store.ErrInvalidEntity,
	shared.ErrEmptyBody,
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, review.ErrUnauthenticated),
		errors.Is(err, service.ErrUnauthenticated):
		return "Authentication required"

	case errors.Is(err, review.ErrItemNotOwned):
		return "You do not own this session item"

	case errors.Is(err, review.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, review.ErrItemNotFound):
		return "Session item not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrItemAlreadyGraded):
		return "Card already graded in this session"
	case errors.Is(err, domain.ErrSessionNotInProgress):
		return "Session is not in progress"
	case errors.Is(err, domain.ErrInvalidState):
		return "Invalid state"
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be between 0 and 5"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid card status"
	case errors.Is(err, review.ErrInvalidLimit):
		return "Invalid session limit"
	case errors.Is(err, review.ErrUnsupportedLanguage),
		errors.Is(err, service.ErrUnsupportedLanguage):
		return "Unsupported language"
	case errors.Is(err, service.ErrInvalidDays):
		return fmt.Sprintf("Days must be between 1 and %d", service.MaxStatDays)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrEmptyCardTerm):
		return "Term is required"
	case errors.Is(err, domain.ErrEmptyCardLanguage):
		return "Language is required"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case isBadRequest(err):
		return SanitizeValidationError(err)

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) && fieldErr.Field != "" {
		return fmt.Sprintf("Invalid %s", fieldErr.Field)
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid ID"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message for internal errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
