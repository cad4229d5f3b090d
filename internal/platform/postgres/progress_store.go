package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

const progressColumns = `learner_id, total_xp, level, title, current_streak, longest_streak,
	streak_shields, last_review_date, total_reviews, total_correct, created_at, updated_at`

const dailyStatColumns = `learner_id, date, review_count, correct_count, xp_earned, minutes_spent`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// dayArg renders a day for a ::date parameter, or NULL for the zero day.
func dayArg(d domain.Day) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// LockLearner implements store.ProgressStore.LockLearner
func (s *PostgresProgressStore) LockLearner(ctx context.Context, learnerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1::int, hashtext($2::text))`,
		progressLockNamespace,
		learnerID.String(),
	)
	if err != nil {
		log.Error("failed to take progress lock",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return MapError(err)
	}
	return nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var p domain.ProgressRecord
	var lastReview sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM learner_progress WHERE learner_id = $1`, learnerID,
	).Scan(
		&p.LearnerID,
		&p.TotalXP,
		&p.Level,
		&p.Title,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.StreakShields,
		&lastReview,
		&p.TotalReviews,
		&p.TotalCorrect,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record not found", slog.String("learner_id", learnerID.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}

	if lastReview.Valid {
		p.LastReviewDate = domain.DayFromTime(lastReview.Time)
	}
	return &p, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(ctx context.Context, p *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("learner_id", p.LearnerID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learner_progress (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10, $11, $12)
		ON CONFLICT (learner_id) DO UPDATE SET
			total_xp = EXCLUDED.total_xp,
			level = EXCLUDED.level,
			title = EXCLUDED.title,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			streak_shields = EXCLUDED.streak_shields,
			last_review_date = EXCLUDED.last_review_date,
			total_reviews = EXCLUDED.total_reviews,
			total_correct = EXCLUDED.total_correct,
			updated_at = EXCLUDED.updated_at`,
		p.LearnerID,
		p.TotalXP,
		p.Level,
		p.Title,
		p.CurrentStreak,
		p.LongestStreak,
		p.StreakShields,
		dayArg(p.LastReviewDate),
		p.TotalReviews,
		p.TotalCorrect,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.String("learner_id", p.LearnerID.String()))
		return MapError(err)
	}

	log.Debug("progress record saved",
		slog.String("learner_id", p.LearnerID.String()),
		slog.Int("total_xp", p.TotalXP),
		slog.Int("level", p.Level))
	return nil
}

func scanDailyStat(row rowScanner) (*domain.DailyStat, error) {
	var stat domain.DailyStat
	var date sql.NullTime

	err := row.Scan(
		&stat.LearnerID,
		&date,
		&stat.ReviewCount,
		&stat.CorrectCount,
		&stat.XPEarned,
		&stat.MinutesSpent,
	)
	if err != nil {
		return nil, err
	}
	stat.Date = domain.DayFromTime(date.Time)
	return &stat, nil
}

// GetDailyStat implements store.ProgressStore.GetDailyStat
func (s *PostgresProgressStore) GetDailyStat(ctx context.Context, learnerID uuid.UUID, day domain.Day) (*domain.DailyStat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stat, err := scanDailyStat(s.db.QueryRowContext(ctx,
		`SELECT `+dailyStatColumns+` FROM daily_stats WHERE learner_id = $1 AND date = $2::date`,
		learnerID, day.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDailyStatNotFound
		}
		log.Error("failed to get daily stat",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("date", day.String()))
		return nil, MapError(err)
	}
	return stat, nil
}

// UpsertDailyStat implements store.ProgressStore.UpsertDailyStat
func (s *PostgresProgressStore) UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (`+dailyStatColumns+`)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		ON CONFLICT (learner_id, date) DO UPDATE SET
			review_count = EXCLUDED.review_count,
			correct_count = EXCLUDED.correct_count,
			xp_earned = EXCLUDED.xp_earned,
			minutes_spent = EXCLUDED.minutes_spent`,
		stat.LearnerID,
		stat.Date.String(),
		stat.ReviewCount,
		stat.CorrectCount,
		stat.XPEarned,
		stat.MinutesSpent,
	)
	if err != nil {
		log.Error("failed to upsert daily stat",
			slog.String("error", err.Error()),
			slog.String("learner_id", stat.LearnerID.String()),
			slog.String("date", stat.Date.String()))
		return MapError(err)
	}
	return nil
}

// ListDailyStats implements store.ProgressStore.ListDailyStats
func (s *PostgresProgressStore) ListDailyStats(
	ctx context.Context,
	learnerID uuid.UUID,
	from, to domain.Day,
) ([]domain.DailyStat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dailyStatColumns+`
		FROM daily_stats
		WHERE learner_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date ASC`,
		learnerID, from.String(), to.String(),
	)
	if err != nil {
		log.Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	stats := []domain.DailyStat{}
	for rows.Next() {
		stat, err := scanDailyStat(rows)
		if err != nil {
			log.Error("failed to scan daily stat", slog.String("error", err.Error()))
			return nil, err
		}
		stats = append(stats, *stat)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return stats, nil
}
