package store

import (
	"context"
	"database/sql"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// SessionStore defines the interface for review session persistence.
type SessionStore interface {
	// LockLearnerLanguage takes a transaction-scoped advisory lock for one
	// learner and language. Concurrent session starts for the same pair
	// serialize on it. It must be called inside a transaction.
	LockLearnerLanguage(ctx context.Context, learnerID uuid.UUID, language string) error

	// Create inserts a session with its items.
	Create(ctx context.Context, session *domain.ReviewSession, items []*domain.ReviewSessionItem) error

	// GetByID retrieves a session.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)

	// GetForUpdate retrieves a session with a row-level lock.
	// Returns ErrSessionNotFound if the session does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)

	// ListItems returns a session's items ordered by position.
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewSessionItem, error)

	// GetItemForUpdate retrieves an item with a row-level lock.
	// Returns ErrSessionItemNotFound if the item does not exist.
	GetItemForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSessionItem, error)

	// UpdateItem writes an item's quality and review time.
	UpdateItem(ctx context.Context, item *domain.ReviewSessionItem) error

	// Update writes a session's status, counters and completion time.
	Update(ctx context.Context, session *domain.ReviewSession) error

	// WithTx returns a SessionStore that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
