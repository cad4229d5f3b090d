package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

const cardColumns = `id, learner_id, language, term, display_form, status, reviews, ease,
	interval_days, last_reviewed_at, next_review_at, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

func scanCard(row rowScanner) (*domain.VocabularyCard, error) {
	var card domain.VocabularyCard
	var status int
	var lastReviewed, nextReview sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.LearnerID,
		&card.Language,
		&card.Term,
		&card.DisplayForm,
		&status,
		&card.Reviews,
		&card.Ease,
		&card.IntervalDays,
		&lastReviewed,
		&nextReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Status = domain.CardStatus(status)
	card.LastReviewedAt = nullTimePtr(lastReviewed)
	card.NextReviewAt = nullTimePtr(nextReview)
	return &card, nil
}

// Upsert implements store.CardStore.Upsert
func (s *PostgresCardStore) Upsert(ctx context.Context, card *domain.VocabularyCard) (*domain.VocabularyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("learner_id", card.LearnerID.String()))
		return nil, err
	}

	query := `
		INSERT INTO vocabulary_cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (learner_id, language, term) DO UPDATE SET
			status = EXCLUDED.status,
			display_form = EXCLUDED.display_form,
			next_review_at = CASE
				WHEN vocabulary_cards.next_review_at IS NULL AND EXCLUDED.status BETWEEN 1 AND 3
				THEN EXCLUDED.updated_at
				ELSE vocabulary_cards.next_review_at
			END,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + cardColumns

	stored, err := scanCard(s.db.QueryRowContext(
		ctx,
		query,
		card.ID,
		card.LearnerID,
		card.Language,
		card.Term,
		card.DisplayForm,
		int(card.Status),
		card.Reviews,
		card.Ease,
		card.IntervalDays,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.CreatedAt,
		card.UpdatedAt,
	))
	if err != nil {
		log.Error("failed to upsert card",
			slog.String("error", err.Error()),
			slog.String("learner_id", card.LearnerID.String()),
			slog.String("language", card.Language))
		return nil, MapError(err)
	}

	log.Debug("card upserted",
		slog.String("card_id", stored.ID.String()),
		slog.String("status", stored.Status.String()))
	return stored, nil
}

// ListDue implements store.CardStore.ListDue
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	language string,
	now time.Time,
	limit int,
) ([]*domain.VocabularyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []*domain.VocabularyCard{}, nil
	}

	query := `
		SELECT ` + cardColumns + `
		FROM vocabulary_cards
		WHERE learner_id = $1
			AND language = $2
			AND status <> $3
			AND next_review_at IS NOT NULL
			AND next_review_at <= $4
			AND NOT EXISTS (
				SELECT 1
				FROM review_session_items i
				JOIN review_sessions rs ON rs.id = i.session_id
				WHERE i.card_id = vocabulary_cards.id
					AND rs.status = $6
			)
		ORDER BY next_review_at ASC, id ASC
		LIMIT $5
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, language, int(domain.StatusIgnored), now.UTC(), limit,
		string(domain.SessionInProgress))
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.VocabularyCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed due cards",
		slog.String("learner_id", learnerID.String()),
		slog.String("language", language),
		slog.Int("count", len(cards)))
	return cards, nil
}

// CountsByLanguage implements store.CardStore.CountsByLanguage
func (s *PostgresCardStore) CountsByLanguage(
	ctx context.Context,
	learnerID uuid.UUID,
	languages []string,
	now time.Time,
) (map[string]store.LanguageCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	counts := make(map[string]store.LanguageCounts, len(languages))
	for _, lang := range languages {
		counts[lang] = store.LanguageCounts{}
	}

	query := `
		SELECT language,
			COUNT(*) FILTER (WHERE status <> 99 AND next_review_at IS NOT NULL AND next_review_at <= $2),
			COUNT(*) FILTER (WHERE status = 4),
			COUNT(*) FILTER (WHERE status BETWEEN 1 AND 3)
		FROM vocabulary_cards
		WHERE learner_id = $1
		GROUP BY language
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, now.UTC())
	if err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var lang string
		var c store.LanguageCounts
		if err := rows.Scan(&lang, &c.Due, &c.Known, &c.Learning); err != nil {
			log.Error("failed to scan count row", slog.String("error", err.Error()))
			return nil, err
		}
		if _, wanted := counts[lang]; wanted {
			counts[lang] = c
		}
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return counts, nil
}

// GetForUpdate implements store.CardStore.GetForUpdate
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.VocabularyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM vocabulary_cards WHERE id = $1 FOR UPDATE`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to lock card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// ListBySession implements store.CardStore.ListBySession
func (s *PostgresCardStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.VocabularyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.learner_id, c.language, c.term, c.display_form, c.status, c.reviews, c.ease,
			c.interval_days, c.last_reviewed_at, c.next_review_at, c.created_at, c.updated_at
		FROM vocabulary_cards c
		JOIN review_session_items i ON i.card_id = c.id
		WHERE i.session_id = $1
		ORDER BY i.position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Error("failed to query session cards",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.VocabularyCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return cards, nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *PostgresCardStore) UpdateSchedule(ctx context.Context, card *domain.VocabularyCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during schedule update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE vocabulary_cards
		SET reviews = $1, ease = $2, interval_days = $3,
			last_reviewed_at = $4, next_review_at = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Reviews,
		card.Ease,
		card.IntervalDays,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		log.Debug("card not found for schedule update", slog.String("card_id", card.ID.String()))
		return err
	}

	log.Debug("card schedule updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("interval_days", card.IntervalDays))
	return nil
}
