package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

// CardRepository is the card access the review service needs.
type CardRepository interface {
	ListDue(ctx context.Context, learnerID uuid.UUID, language string, now time.Time, limit int) ([]*domain.VocabularyCard, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.VocabularyCard, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyCard, error)
	UpdateSchedule(ctx context.Context, card *domain.VocabularyCard) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// SessionRepository is the session access the review service needs.
type SessionRepository interface {
	LockLearnerLanguage(ctx context.Context, learnerID uuid.UUID, language string) error
	Create(ctx context.Context, session *domain.ReviewSession, items []*domain.ReviewSessionItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewSessionItem, error)
	GetItemForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSessionItem, error)
	UpdateItem(ctx context.Context, item *domain.ReviewSessionItem) error
	Update(ctx context.Context, session *domain.ReviewSession) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionRepository
}

// ProgressRepository is the progression access the review service needs.
type ProgressRepository interface {
	LockLearner(ctx context.Context, learnerID uuid.UUID) error
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error)
	Upsert(ctx context.Context, record *domain.ProgressRecord) error
	GetDailyStat(ctx context.Context, learnerID uuid.UUID, day domain.Day) (*domain.DailyStat, error)
	UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressRepository
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{CardStore: cardStore, db: db}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	store.CardStore
	db *sql.DB
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{CardStore: a.CardStore.WithTx(tx), db: a.db}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewSessionRepositoryAdapter creates a new adapter that allows a
// store.SessionStore to be used where a SessionRepository is expected.
func NewSessionRepositoryAdapter(sessionStore store.SessionStore) SessionRepository {
	return &sessionRepositoryAdapter{SessionStore: sessionStore}
}

type sessionRepositoryAdapter struct {
	store.SessionStore
}

// WithTx implements SessionRepository.WithTx
func (a *sessionRepositoryAdapter) WithTx(tx *sql.Tx) SessionRepository {
	return &sessionRepositoryAdapter{SessionStore: a.SessionStore.WithTx(tx)}
}

// NewProgressRepositoryAdapter creates a new adapter that allows a
// store.ProgressStore to be used where a ProgressRepository is expected.
func NewProgressRepositoryAdapter(progressStore store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{ProgressStore: progressStore}
}

type progressRepositoryAdapter struct {
	store.ProgressStore
}

// WithTx implements ProgressRepository.WithTx
func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{ProgressStore: a.ProgressStore.WithTx(tx)}
}
