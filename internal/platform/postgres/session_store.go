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

// Advisory lock namespaces. The first key of pg_advisory_xact_lock(int, int)
// separates lock families so a learner/language key never collides with a
// learner progress key.
const (
	sessionStartLockNamespace = 1
	progressLockNamespace     = 2
)

const sessionColumns = `id, learner_id, language, status, card_count, reviewed_count,
	ease_sum, started_at, completed_at`

const itemColumns = `id, session_id, card_id, position, quality, reviewed_at`

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

func scanSession(row rowScanner) (*domain.ReviewSession, error) {
	var session domain.ReviewSession
	var status string
	var completed sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.LearnerID,
		&session.Language,
		&status,
		&session.CardCount,
		&session.ReviewedCount,
		&session.EaseSum,
		&session.StartedAt,
		&completed,
	)
	if err != nil {
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	session.StartedAt = session.StartedAt.UTC()
	session.CompletedAt = nullTimePtr(completed)
	return &session, nil
}

func scanItem(row rowScanner) (*domain.ReviewSessionItem, error) {
	var item domain.ReviewSessionItem
	var quality sql.NullInt16
	var reviewed sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.SessionID,
		&item.CardID,
		&item.Position,
		&quality,
		&reviewed,
	)
	if err != nil {
		return nil, err
	}

	if quality.Valid {
		q := domain.Quality(quality.Int16)
		item.Quality = &q
	}
	item.ReviewedAt = nullTimePtr(reviewed)
	return &item, nil
}

// LockLearnerLanguage implements store.SessionStore.LockLearnerLanguage
func (s *PostgresSessionStore) LockLearnerLanguage(ctx context.Context, learnerID uuid.UUID, language string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1::int, hashtext($2::text))`,
		sessionStartLockNamespace,
		learnerID.String()+":"+language,
	)
	if err != nil {
		log.Error("failed to take session start lock",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return MapError(err)
	}
	return nil
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(
	ctx context.Context,
	session *domain.ReviewSession,
	items []*domain.ReviewSessionItem,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		session.ID,
		session.LearnerID,
		session.Language,
		string(session.Status),
		session.CardCount,
		session.ReviewedCount,
		session.EaseSum,
		session.StartedAt,
		session.CompletedAt,
	)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	for _, item := range items {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO review_session_items (id, session_id, card_id, position)
			VALUES ($1, $2, $3, $4)`,
			item.ID,
			item.SessionID,
			item.CardID,
			item.Position,
		)
		if err != nil {
			log.Error("failed to create session item",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("card_id", item.CardID.String()))
			return MapError(err)
		}
	}

	log.Info("review session created",
		slog.String("session_id", session.ID.String()),
		slog.String("learner_id", session.LearnerID.String()),
		slog.Int("card_count", session.CardCount))
	return nil
}

func (s *PostgresSessionStore) getSession(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + sessionColumns + ` FROM review_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}
	return session, nil
}

// GetByID implements store.SessionStore.GetByID
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	return s.getSession(ctx, id, false)
}

// GetForUpdate implements store.SessionStore.GetForUpdate
func (s *PostgresSessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	return s.getSession(ctx, id, true)
}

// ListItems implements store.SessionStore.ListItems
func (s *PostgresSessionStore) ListItems(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReviewSessionItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM review_session_items
		WHERE session_id = $1
		ORDER BY position ASC`,
		sessionID,
	)
	if err != nil {
		log.Error("failed to list session items",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.ReviewSessionItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan session item", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}

// GetItemForUpdate implements store.SessionStore.GetItemForUpdate
func (s *PostgresSessionStore) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSessionItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM review_session_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session item not found", slog.String("item_id", id.String()))
			return nil, store.ErrSessionItemNotFound
		}
		log.Error("failed to lock session item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}
	return item, nil
}

// UpdateItem implements store.SessionStore.UpdateItem
func (s *PostgresSessionStore) UpdateItem(ctx context.Context, item *domain.ReviewSessionItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var quality any
	if item.Quality != nil {
		quality = int(*item.Quality)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE review_session_items
		SET quality = $1, reviewed_at = $2
		WHERE id = $3`,
		quality,
		item.ReviewedAt,
		item.ID,
	)
	if err != nil {
		log.Error("failed to update session item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrSessionItemNotFound)
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE review_sessions
		SET status = $1, reviewed_count = $2, ease_sum = $3, completed_at = $4
		WHERE id = $5`,
		string(session.Status),
		session.ReviewedCount,
		session.EaseSum,
		session.CompletedAt,
		session.ID,
	)
	if err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		return err
	}

	log.Debug("session updated",
		slog.String("session_id", session.ID.String()),
		slog.String("status", string(session.Status)),
		slog.Int("reviewed_count", session.ReviewedCount))
	return nil
}
