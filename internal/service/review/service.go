package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// SessionCard is one session item paired with the card it presents.
type SessionCard struct {
	ItemID      uuid.UUID         `json:"item_id"`
	CardID      uuid.UUID         `json:"card_id"`
	Position    int               `json:"position"`
	Term        string            `json:"term"`
	DisplayForm string            `json:"display_form"`
	Status      domain.CardStatus `json:"status"`
	Quality     *domain.Quality   `json:"quality,omitempty"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
}

// SessionDetail is a session with its cards in position order.
type SessionDetail struct {
	Session *domain.ReviewSession `json:"session"`
	Cards   []SessionCard         `json:"cards"`
}

// GradeResult reports everything one grade changed.
type GradeResult struct {
	Ease          float64   `json:"ease"`
	IntervalDays  int       `json:"interval_days"`
	NextReviewAt  time.Time `json:"next_review_at"`
	IsComplete    bool      `json:"is_complete"`
	XPEarned      int       `json:"xp_earned"`
	BaseXP        int       `json:"base_xp"`
	BonusXP       int       `json:"bonus_xp"`
	LeveledUp     bool      `json:"leveled_up"`
	NewLevel      *int      `json:"new_level,omitempty"`
	NewTitle      *string   `json:"new_title,omitempty"`
	CurrentStreak int       `json:"current_streak"`
	StreakShields int       `json:"streak_shields"`
	ReviewedCount int       `json:"reviewed_count"`
	CardCount     int       `json:"card_count"`
}

// ReviewService runs review sessions for authenticated learners.
type ReviewService interface {
	// StartSession selects up to limit due cards of learnerID in language
	// and opens a session over them. A limit of 0 uses the configured
	// default. When nothing is due it returns (nil, nil) and writes nothing.
	StartSession(ctx context.Context, learnerID uuid.UUID, language string, limit int) (*SessionDetail, error)

	// GradeItem records quality for one session item. sessionStartedAt is an
	// optional client-side start time used for minutes spent when this grade
	// completes the session; pass the zero time to use the server's.
	//
	// Returns:
	//   - ErrItemNotFound when the item does not exist
	//   - ErrItemNotOwned when the item belongs to another learner
	//   - ErrAlreadyGraded when the item already has a quality
	//   - ErrSessionNotInProgress when the session is completed or abandoned
	//   - ErrInvalidQuality when quality is outside 0..5
	GradeItem(
		ctx context.Context,
		learnerID uuid.UUID,
		itemID uuid.UUID,
		quality domain.Quality,
		sessionStartedAt time.Time,
	) (*GradeResult, error)

	// AbandonSession moves an in-progress session to abandoned. It is a
	// no-op for sessions that already ended. A missing or foreign session
	// returns ErrSessionNotFound.
	AbandonSession(ctx context.Context, learnerID uuid.UUID, sessionID uuid.UUID) (*domain.ReviewSession, error)

	// GetSession returns a session owned by learnerID with its cards.
	GetSession(ctx context.Context, learnerID uuid.UUID, sessionID uuid.UUID) (*SessionDetail, error)
}

// Common error types for ReviewService
var (
	// ErrUnauthenticated is returned when a mutation is attempted without a learner.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrSessionNotFound is returned for missing sessions and for sessions
	// owned by another learner.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrItemNotFound is returned when a session item does not exist.
	ErrItemNotFound = errors.New("review session item not found")

	// ErrItemNotOwned is returned when an item's session or card belongs to
	// another learner.
	ErrItemNotOwned = errors.New("unauthorized access: session item not owned by learner")

	// ErrInvalidLimit is returned for a negative limit or one above the maximum.
	ErrInvalidLimit = errors.New("invalid session limit")

	// ErrUnsupportedLanguage is returned for a language outside the configured set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// State and argument errors shared with the domain.
	ErrAlreadyGraded        = domain.ErrItemAlreadyGraded
	ErrSessionNotInProgress = domain.ErrSessionNotInProgress
	ErrInvalidQuality       = domain.ErrInvalidQuality
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session", "grade_item")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartSessionError returns a new ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "start_session", Message: message, Err: err}
}

// NewGradeItemError returns a new ServiceError for the grade_item operation.
func NewGradeItemError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "grade_item", Message: message, Err: err}
}

// NewAbandonSessionError returns a new ServiceError for the abandon_session operation.
func NewAbandonSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "abandon_session", Message: message, Err: err}
}

// NewGetSessionError returns a new ServiceError for the get_session operation.
func NewGetSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_session", Message: message, Err: err}
}
