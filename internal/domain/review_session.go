package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a review session.
type SessionStatus string

// Session status values. Completed and abandoned are terminal.
const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Common validation errors for review sessions.
var (
	ErrEmptySessionLearnerID = errors.New("session learner ID cannot be empty")
	ErrEmptySessionLanguage  = errors.New("session language cannot be empty")
	ErrInvalidCardCount      = errors.New("session card count must be at least 1")
	ErrInvalidSessionStatus  = errors.New("invalid session status")
	ErrEmptyItemSessionID    = errors.New("session item session ID cannot be empty")
	ErrEmptyItemCardID       = errors.New("session item card ID cannot be empty")
)

// ReviewSession is one bounded pass over a batch of due cards.
type ReviewSession struct {
	ID            uuid.UUID     `json:"id"`
	LearnerID     uuid.UUID     `json:"learner_id"`
	Language      string        `json:"language"`
	Status        SessionStatus `json:"status"`
	CardCount     int           `json:"card_count"`
	ReviewedCount int           `json:"reviewed_count"`
	EaseSum       float64       `json:"ease_sum"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// ReviewSessionItem is one card's slot in a session.
type ReviewSessionItem struct {
	ID         uuid.UUID  `json:"id"`
	SessionID  uuid.UUID  `json:"session_id"`
	CardID     uuid.UUID  `json:"card_id"`
	Position   int        `json:"position"`
	Quality    *Quality   `json:"quality,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// NewReviewSession creates an in-progress session holding cardCount cards.
func NewReviewSession(learnerID uuid.UUID, language string, cardCount int, now time.Time) (*ReviewSession, error) {
	s := &ReviewSession{
		ID:        uuid.New(),
		LearnerID: learnerID,
		Language:  NormalizeLanguage(language),
		Status:    SessionInProgress,
		CardCount: cardCount,
		StartedAt: now.UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the session has valid data.
func (s *ReviewSession) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptySessionLearnerID
	}
	if s.Language == "" {
		return ErrEmptySessionLanguage
	}
	if s.CardCount < 1 {
		return ErrInvalidCardCount
	}
	switch s.Status {
	case SessionInProgress, SessionCompleted, SessionAbandoned:
	default:
		return ErrInvalidSessionStatus
	}
	if s.ReviewedCount < 0 || s.ReviewedCount > s.CardCount {
		return ErrSessionFull
	}
	return nil
}

// IsTerminal reports whether the session can no longer change.
func (s *ReviewSession) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

// AverageEase returns easeSum / reviewedCount, or 0 before the first grade.
func (s *ReviewSession) AverageEase() float64 {
	if s.ReviewedCount == 0 {
		return 0
	}
	return s.EaseSum / float64(s.ReviewedCount)
}

// RecordGrade counts one graded card with its post-update ease. When the
// last card is counted the session completes at now. It reports whether this
// grade completed the session.
func (s *ReviewSession) RecordGrade(ease float64, now time.Time) (bool, error) {
	if s.Status != SessionInProgress {
		return false, ErrSessionNotInProgress
	}
	if s.ReviewedCount >= s.CardCount {
		return false, ErrSessionFull
	}
	s.ReviewedCount++
	s.EaseSum += ease
	if s.ReviewedCount == s.CardCount {
		done := now.UTC()
		s.Status = SessionCompleted
		s.CompletedAt = &done
		return true, nil
	}
	return false, nil
}

// Abandon moves an in-progress session to abandoned. It reports whether the
// status changed; terminal sessions are left alone.
func (s *ReviewSession) Abandon() bool {
	if s.Status != SessionInProgress {
		return false
	}
	s.Status = SessionAbandoned
	return true
}

// Duration returns the elapsed time between start and completion, measured
// from startedAt when it is a plausible earlier start than the session's own.
// A zero or out-of-range startedAt falls back to the session's StartedAt.
func (s *ReviewSession) Duration(startedAt time.Time) time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	from := s.StartedAt
	if !startedAt.IsZero() && startedAt.Before(*s.CompletedAt) && !startedAt.Before(s.StartedAt) {
		from = startedAt
	}
	return s.CompletedAt.Sub(from)
}

// NewReviewSessionItem creates an ungraded item at position.
func NewReviewSessionItem(sessionID, cardID uuid.UUID, position int) (*ReviewSessionItem, error) {
	item := &ReviewSessionItem{
		ID:        uuid.New(),
		SessionID: sessionID,
		CardID:    cardID,
		Position:  position,
	}
	if sessionID == uuid.Nil {
		return nil, ErrEmptyItemSessionID
	}
	if cardID == uuid.Nil {
		return nil, ErrEmptyItemCardID
	}
	return item, nil
}

// IsGraded reports whether the item already carries a quality.
func (i *ReviewSessionItem) IsGraded() bool {
	return i.Quality != nil
}

// Grade stamps q on the item. An item is graded at most once.
func (i *ReviewSessionItem) Grade(q Quality, now time.Time) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if i.IsGraded() {
		return ErrItemAlreadyGraded
	}
	at := now.UTC()
	i.Quality = &q
	i.ReviewedAt = &at
	return nil
}
