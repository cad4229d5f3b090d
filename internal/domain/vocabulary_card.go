package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CardStatus is the learner's relationship to a term.
type CardStatus int

// Card status values. Learning occupies the inclusive range
// StatusLearning1..StatusLearning3.
const (
	StatusNew       CardStatus = 0
	StatusLearning1 CardStatus = 1
	StatusLearning2 CardStatus = 2
	StatusLearning3 CardStatus = 3
	StatusKnown     CardStatus = 4
	StatusIgnored   CardStatus = 99
)

// Scheduling defaults and bounds.
const (
	DefaultEase = 2.5
	MinEase     = 1.3
)

// Common validation errors for VocabularyCard.
var (
	ErrEmptyCardLearnerID = errors.New("card learner ID cannot be empty")
	ErrEmptyCardLanguage  = errors.New("card language cannot be empty")
	ErrEmptyCardTerm      = errors.New("card term cannot be empty")
	ErrInvalidEase        = errors.New("ease must be at least 1.3")
	ErrInvalidInterval    = errors.New("interval must be greater than or equal to 0")
	ErrInvalidReviews     = errors.New("reviews must be greater than or equal to 0")
)

// Valid reports whether s is one of the defined statuses.
func (s CardStatus) Valid() bool {
	return (s >= StatusNew && s <= StatusKnown) || s == StatusIgnored
}

// IsLearning reports whether s is in the Learning range.
func (s CardStatus) IsLearning() bool {
	return s >= StatusLearning1 && s <= StatusLearning3
}

// String returns a readable name for s.
func (s CardStatus) String() string {
	switch {
	case s == StatusNew:
		return "new"
	case s.IsLearning():
		return "learning"
	case s == StatusKnown:
		return "known"
	case s == StatusIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// VocabularyCard is one learner's record of one term in one language along
// with its spaced-repetition scheduling state. A card without NextReviewAt
// is never due.
type VocabularyCard struct {
	ID             uuid.UUID  `json:"id"`
	LearnerID      uuid.UUID  `json:"learner_id"`
	Language       string     `json:"language"`
	Term           string     `json:"term"`
	DisplayForm    string     `json:"display_form"`
	Status         CardStatus `json:"status"`
	Reviews        int        `json:"reviews"`
	Ease           float64    `json:"ease"`
	IntervalDays   int        `json:"interval_days"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewVocabularyCard creates a card with default scheduling state. The term is
// stored lower-cased and trimmed; displayForm keeps the learner's casing and
// falls back to the raw term.
func NewVocabularyCard(
	learnerID uuid.UUID,
	language, term, displayForm string,
	status CardStatus,
	now time.Time,
) (*VocabularyCard, error) {
	now = now.UTC()
	if strings.TrimSpace(displayForm) == "" {
		displayForm = strings.TrimSpace(term)
	}
	card := &VocabularyCard{
		ID:          uuid.New(),
		LearnerID:   learnerID,
		Language:    NormalizeLanguage(language),
		Term:        NormalizeTerm(term),
		DisplayForm: displayForm,
		Status:      StatusNew,
		Ease:        DefaultEase,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return card.WithStatus(status, now), nil
}

// NormalizeTerm lower-cases and trims a term so each learner has at most one
// card per surface word.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// NormalizeLanguage lower-cases and trims a language code.
func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// Validate checks if the card has valid data.
func (c *VocabularyCard) Validate() error {
	if c.LearnerID == uuid.Nil {
		return ErrEmptyCardLearnerID
	}
	if c.Language == "" {
		return ErrEmptyCardLanguage
	}
	if c.Term == "" {
		return ErrEmptyCardTerm
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	if c.Reviews < 0 {
		return ErrInvalidReviews
	}
	if c.Ease < MinEase {
		return ErrInvalidEase
	}
	if c.IntervalDays < 0 {
		return ErrInvalidInterval
	}
	return nil
}

// IsDue reports whether the card should be offered for review at now.
// Ignored cards and cards with no schedule are never due.
func (c *VocabularyCard) IsDue(now time.Time) bool {
	if c.Status == StatusIgnored || c.NextReviewAt == nil {
		return false
	}
	return !c.NextReviewAt.After(now)
}

// WithStatus returns a copy of c with the given status. Moving into Learning
// with no schedule yet makes the card due at now.
func (c *VocabularyCard) WithStatus(status CardStatus, now time.Time) *VocabularyCard {
	next := *c
	next.Status = status
	next.UpdatedAt = now.UTC()
	if status.IsLearning() && next.NextReviewAt == nil {
		due := now.UTC()
		next.NextReviewAt = &due
	}
	return &next
}
