package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// LanguageCounts aggregates a learner's cards in one language.
type LanguageCounts struct {
	Due      int `json:"due"`
	Known    int `json:"known"`
	Learning int `json:"learning"`
}

// CardStore defines the interface for vocabulary card persistence.
type CardStore interface {
	// Upsert inserts a card or, when the learner already has one for the
	// same language and term, updates its status and display form. An
	// existing card moving into Learning without a schedule becomes due at
	// the card's UpdatedAt. Scheduling fields are otherwise left untouched.
	// Returns the stored card.
	Upsert(ctx context.Context, card *domain.VocabularyCard) (*domain.VocabularyCard, error)

	// ListDue returns up to limit cards of learnerID in language whose
	// NextReviewAt is at or before now, oldest first with id as tiebreaker.
	// Ignored cards and cards held by an in-progress session are never
	// returned.
	ListDue(ctx context.Context, learnerID uuid.UUID, language string, now time.Time, limit int) ([]*domain.VocabularyCard, error)

	// CountsByLanguage returns due, known and learning counts for each of
	// languages. Languages with no cards map to zero counts.
	CountsByLanguage(ctx context.Context, learnerID uuid.UUID, languages []string, now time.Time) (map[string]LanguageCounts, error)

	// GetForUpdate retrieves a card with a row-level lock.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyCard, error)

	// ListBySession returns the cards referenced by a session's items.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.VocabularyCard, error)

	// UpdateSchedule writes a card's scheduling fields.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.VocabularyCard) error

	// WithTx returns a CardStore that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
