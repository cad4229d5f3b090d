package store

import (
	"context"
	"database/sql"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/google/uuid"
)

// ProgressStore defines the interface for progress record and daily stat
// persistence.
type ProgressStore interface {
	// LockLearner takes a transaction-scoped advisory lock on a learner's
	// progress. Grades for the same learner serialize on it, including the
	// first grade that creates the record. It must be called inside a
	// transaction.
	LockLearner(ctx context.Context, learnerID uuid.UUID) error

	// Get retrieves a learner's progress record.
	// Returns ErrProgressNotFound if the learner has never been graded.
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error)

	// Upsert inserts or replaces a learner's progress record.
	Upsert(ctx context.Context, record *domain.ProgressRecord) error

	// GetDailyStat retrieves a learner's stat for one day.
	// Returns ErrDailyStatNotFound if there was no activity that day.
	GetDailyStat(ctx context.Context, learnerID uuid.UUID, day domain.Day) (*domain.DailyStat, error)

	// UpsertDailyStat inserts or replaces a daily stat.
	UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error

	// ListDailyStats returns stats between from and to inclusive, oldest first.
	ListDailyStats(ctx context.Context, learnerID uuid.UUID, from, to domain.Day) ([]domain.DailyStat, error)

	// WithTx returns a ProgressStore that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
