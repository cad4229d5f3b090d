package api

import (
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// Common request/response structures

// UpsertCardRequest is the payload for PUT /api/cards. Status uses the
// numeric card status values (0 new, 1..3 learning, 4 known, 99 ignored).
type UpsertCardRequest struct {
	Language    string `json:"language"     validate:"required,max=16"`
	Term        string `json:"term"         validate:"required,max=256"`
	DisplayForm string `json:"display_form" validate:"max=256"`
	Status      *int   `json:"status"       validate:"required"`
}

// CardResponse is the stored card returned after an upsert.
type CardResponse struct {
	ID           uuid.UUID  `json:"id"`
	Language     string     `json:"language"`
	Term         string     `json:"term"`
	DisplayForm  string     `json:"display_form"`
	Status       int        `json:"status"`
	StatusName   string     `json:"status_name"`
	Ease         float64    `json:"ease"`
	IntervalDays int        `json:"interval_days"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
}

// CountResponse carries a single card count for a language.
type CountResponse struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// StartSessionRequest is the payload for POST /api/sessions. An omitted
// limit uses the configured default.
type StartSessionRequest struct {
	Language string `json:"language" validate:"required"`
	Limit    *int   `json:"limit"    validate:"omitempty,min=1"`
}

// GradeRequest is the payload for grading one session item.
// SessionStartedAt is the client's view of when the learner began, used for
// minutes spent.
type GradeRequest struct {
	Quality          *int       `json:"quality"            validate:"required,min=0,max=5"`
	SessionStartedAt *time.Time `json:"session_started_at"`
}

// DailyStatsResponse wraps the per-day stats window.
type DailyStatsResponse struct {
	Days  int                `json:"days"`
	Stats []domain.DailyStat `json:"stats"`
}

func cardToResponse(card *domain.VocabularyCard) CardResponse {
	return CardResponse{
		ID:           card.ID,
		Language:     card.Language,
		Term:         card.Term,
		DisplayForm:  card.DisplayForm,
		Status:       int(card.Status),
		StatusName:   card.Status.String(),
		Ease:         card.Ease,
		IntervalDays: card.IntervalDays,
		NextReviewAt: card.NextReviewAt,
	}
}
