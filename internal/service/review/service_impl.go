package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain/progression"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain/srs"
	"github.com/Ymit24/language-reader-app-sub000/internal/events"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// Config bounds session sizes and restricts languages.
type Config struct {
	// DefaultLimit is used when StartSession is called with limit 0.
	DefaultLimit int
	// MaxLimit is the largest limit StartSession accepts.
	MaxLimit int
	// Languages, when non-empty, is the set of languages sessions may use.
	Languages []string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the sizing used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{DefaultLimit: 20, MaxLimit: 100}
}

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	cardRepo     CardRepository
	sessionRepo  SessionRepository
	progressRepo ProgressRepository
	srsService   srs.Service
	ledger       *progression.Ledger
	emitter      events.EventEmitter
	cfg          Config
	languages    map[string]struct{}
	logger       *slog.Logger
}

// NewReviewService creates a new ReviewService implementation. emitter may be
// nil, in which case no events are published.
func NewReviewService(
	cardRepo CardRepository,
	sessionRepo SessionRepository,
	progressRepo ProgressRepository,
	srsService srs.Service,
	ledger *progression.Ledger,
	emitter events.EventEmitter,
	cfg Config,
	logger *slog.Logger,
) ReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if sessionRepo == nil {
		panic("sessionRepo cannot be nil")
	}
	if progressRepo == nil {
		panic("progressRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if ledger == nil {
		ledger = progression.NewLedger(nil, time.UTC)
	}
	defaults := DefaultConfig()
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaults.MaxLimit
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(defaults.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	languages := make(map[string]struct{}, len(cfg.Languages))
	for _, l := range cfg.Languages {
		languages[domain.NormalizeLanguage(l)] = struct{}{}
	}

	return &reviewServiceImpl{
		cardRepo:     cardRepo,
		sessionRepo:  sessionRepo,
		progressRepo: progressRepo,
		srsService:   srsService,
		ledger:       ledger,
		emitter:      emitter,
		cfg:          cfg,
		languages:    languages,
		logger:       logger.With(slog.String("component", "review_service")),
	}
}

// repos is the set of repositories bound to one transaction.
type repos struct {
	cards    CardRepository
	sessions SessionRepository
	progress ProgressRepository
}

// runInTransaction runs fn with repositories bound to a single transaction.
func (s *reviewServiceImpl) runInTransaction(ctx context.Context, fn func(context.Context, repos) error) error {
	return store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, repos{
			cards:    s.cardRepo.WithTx(tx),
			sessions: s.sessionRepo.WithTx(tx),
			progress: s.progressRepo.WithTx(tx),
		})
	})
}

func (s *reviewServiceImpl) resolveLimit(limit int) (int, error) {
	if limit == 0 {
		return s.cfg.DefaultLimit, nil
	}
	if limit < 0 || limit > s.cfg.MaxLimit {
		return 0, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, s.cfg.MaxLimit)
	}
	return limit, nil
}

func (s *reviewServiceImpl) checkLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("%w: language is required", ErrUnsupportedLanguage)
	}
	if len(s.languages) == 0 {
		return nil
	}
	if _, ok := s.languages[language]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return nil
}

// StartSession implements ReviewService.StartSession.
func (s *reviewServiceImpl) StartSession(
	ctx context.Context,
	learnerID uuid.UUID,
	language string,
	limit int,
) (*SessionDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	language = domain.NormalizeLanguage(language)
	if err := s.checkLanguage(language); err != nil {
		return nil, err
	}
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	var detail *SessionDetail
	err = s.runInTransaction(ctx, func(ctx context.Context, r repos) error {
		if err := r.sessions.LockLearnerLanguage(ctx, learnerID, language); err != nil {
			return fmt.Errorf("failed to lock learner language: %w", err)
		}

		due, err := r.cards.ListDue(ctx, learnerID, language, now, limit)
		if err != nil {
			return fmt.Errorf("failed to list due cards: %w", err)
		}
		if len(due) == 0 {
			return nil
		}

		session, err := domain.NewReviewSession(learnerID, language, len(due), now)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		items := make([]*domain.ReviewSessionItem, 0, len(due))
		for i, card := range due {
			item, err := domain.NewReviewSessionItem(session.ID, card.ID, i)
			if err != nil {
				return fmt.Errorf("failed to create session item: %w", err)
			}
			items = append(items, item)
		}
		if err := r.sessions.Create(ctx, session, items); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		detail = &SessionDetail{Session: session, Cards: pairCards(items, due)}
		return nil
	})
	if err != nil {
		log.Error("failed to start review session",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("language", language))
		return nil, NewStartSessionError("failed to start session", err)
	}

	if detail == nil {
		log.Debug("no cards due for review",
			slog.String("learner_id", learnerID.String()),
			slog.String("language", language))
		return nil, nil
	}

	log.Info("review session started",
		slog.String("learner_id", learnerID.String()),
		slog.String("session_id", detail.Session.ID.String()),
		slog.String("language", language),
		slog.Int("card_count", detail.Session.CardCount))
	return detail, nil
}

// GradeItem implements ReviewService.GradeItem.
func (s *reviewServiceImpl) GradeItem(
	ctx context.Context,
	learnerID uuid.UUID,
	itemID uuid.UUID,
	quality domain.Quality,
	sessionStartedAt time.Time,
) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := quality.Validate(); err != nil {
		return nil, err
	}

	log.Debug("grading session item",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", int(quality)))

	now := s.cfg.Now().UTC()
	var (
		result  *GradeResult
		session *domain.ReviewSession
		award   progression.Award
		record  *domain.ProgressRecord
		minutes int
	)
	err := s.runInTransaction(ctx, func(ctx context.Context, r repos) error {
		item, err := r.sessions.GetItemForUpdate(ctx, itemID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get session item: %w", err)
		}

		session, err = r.sessions.GetForUpdate(ctx, item.SessionID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.LearnerID != learnerID {
			log.Warn("learner does not own session item",
				slog.String("learner_id", learnerID.String()),
				slog.String("item_id", itemID.String()),
				slog.String("owner_id", session.LearnerID.String()))
			return ErrItemNotOwned
		}
		if item.IsGraded() {
			return ErrAlreadyGraded
		}
		if session.Status != domain.SessionInProgress {
			return ErrSessionNotInProgress
		}

		card, err := r.cards.GetForUpdate(ctx, item.CardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		if card.LearnerID != learnerID {
			return ErrItemNotOwned
		}

		scheduled, err := s.srsService.Schedule(card, quality, now)
		if err != nil {
			return fmt.Errorf("failed to schedule card: %w", err)
		}
		if err := r.cards.UpdateSchedule(ctx, scheduled); err != nil {
			return fmt.Errorf("failed to update card schedule: %w", err)
		}

		if err := item.Grade(quality, now); err != nil {
			return err
		}
		if err := r.sessions.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("failed to update session item: %w", err)
		}

		// Serializes concurrent grades of one learner so the first review of
		// a day is counted once.
		if err := r.progress.LockLearner(ctx, learnerID); err != nil {
			return fmt.Errorf("failed to lock learner progress: %w", err)
		}
		current, err := r.progress.Get(ctx, learnerID)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return fmt.Errorf("failed to get progress: %w", err)
			}
			current = nil
		}
		stat, err := r.progress.GetDailyStat(ctx, learnerID, s.ledger.Today(now))
		if err != nil {
			if !store.IsNotFoundError(err) {
				return fmt.Errorf("failed to get daily stat: %w", err)
			}
			stat = nil
		}

		applied, err := s.ledger.Apply(learnerID, current, stat, quality, now)
		if err != nil {
			return fmt.Errorf("failed to apply review to progress: %w", err)
		}

		completed, err := session.RecordGrade(scheduled.Ease, now)
		if err != nil {
			return err
		}
		if completed {
			before := applied.Stat.MinutesSpent
			applied.Stat.AddMinutes(session.Duration(sessionStartedAt))
			minutes = applied.Stat.MinutesSpent - before
		}

		if err := r.progress.Upsert(ctx, applied.Record); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		if err := r.progress.UpsertDailyStat(ctx, applied.Stat); err != nil {
			return fmt.Errorf("failed to save daily stat: %w", err)
		}
		if err := r.sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		award = applied.Award
		record = applied.Record
		result = newGradeResult(scheduled, session, award)
		return nil
	})
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		log.Error("failed to grade session item",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return nil, NewGradeItemError("failed to grade item", err)
	}

	log.Debug("graded session item",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("xp_earned", result.XPEarned),
		slog.Int("interval_days", result.IntervalDays),
		slog.Bool("complete", result.IsComplete))

	s.emitGradeEvents(ctx, learnerID, session, award, record, minutes)
	return result, nil
}

// AbandonSession implements ReviewService.AbandonSession.
func (s *reviewServiceImpl) AbandonSession(
	ctx context.Context,
	learnerID uuid.UUID,
	sessionID uuid.UUID,
) (*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var session *domain.ReviewSession
	err := s.runInTransaction(ctx, func(ctx context.Context, r repos) error {
		var err error
		session, err = r.sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.LearnerID != learnerID {
			return ErrSessionNotFound
		}
		if !session.Abandon() {
			return nil
		}
		if err := r.sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		log.Info("review session abandoned",
			slog.String("learner_id", learnerID.String()),
			slog.String("session_id", sessionID.String()),
			slog.Int("reviewed_count", session.ReviewedCount),
			slog.Int("card_count", session.CardCount))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		log.Error("failed to abandon session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, NewAbandonSessionError("failed to abandon session", err)
	}
	return session, nil
}

// GetSession implements ReviewService.GetSession.
func (s *reviewServiceImpl) GetSession(
	ctx context.Context,
	learnerID uuid.UUID,
	sessionID uuid.UUID,
) (*SessionDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, NewGetSessionError("failed to get session", err)
	}
	if session.LearnerID != learnerID {
		log.Debug("session requested by non-owner",
			slog.String("learner_id", learnerID.String()),
			slog.String("session_id", sessionID.String()))
		return nil, ErrSessionNotFound
	}

	items, err := s.sessionRepo.ListItems(ctx, sessionID)
	if err != nil {
		return nil, NewGetSessionError("failed to list session items", err)
	}
	cards, err := s.cardRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, NewGetSessionError("failed to list session cards", err)
	}

	return &SessionDetail{Session: session, Cards: pairCards(items, cards)}, nil
}

// pairCards joins items with their cards by card ID, keeping item order.
// Items whose card is missing are skipped.
func pairCards(items []*domain.ReviewSessionItem, cards []*domain.VocabularyCard) []SessionCard {
	byID := make(map[uuid.UUID]*domain.VocabularyCard, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	out := make([]SessionCard, 0, len(items))
	for _, item := range items {
		card, ok := byID[item.CardID]
		if !ok {
			continue
		}
		out = append(out, SessionCard{
			ItemID:      item.ID,
			CardID:      card.ID,
			Position:    item.Position,
			Term:        card.Term,
			DisplayForm: card.DisplayForm,
			Status:      card.Status,
			Quality:     item.Quality,
			ReviewedAt:  item.ReviewedAt,
		})
	}
	return out
}

func newGradeResult(card *domain.VocabularyCard, session *domain.ReviewSession, award progression.Award) *GradeResult {
	res := &GradeResult{
		Ease:          card.Ease,
		IntervalDays:  card.IntervalDays,
		IsComplete:    session.Status == domain.SessionCompleted,
		XPEarned:      award.TotalXP,
		BaseXP:        award.BaseXP,
		BonusXP:       award.BonusXP,
		LeveledUp:     award.LeveledUp,
		CurrentStreak: award.Streak,
		StreakShields: award.StreakShields,
		ReviewedCount: session.ReviewedCount,
		CardCount:     session.CardCount,
	}
	if card.NextReviewAt != nil {
		res.NextReviewAt = *card.NextReviewAt
	}
	if award.LeveledUp {
		level, title := award.Level, award.Title
		res.NewLevel = &level
		res.NewTitle = &title
	}
	return res
}

// isClientError reports whether err is one of the errors GradeItem returns
// to callers unwrapped.
func isClientError(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrItemNotOwned) ||
		errors.Is(err, ErrAlreadyGraded) ||
		errors.Is(err, ErrSessionNotInProgress) ||
		errors.Is(err, ErrInvalidQuality)
}

// emitGradeEvents publishes progression events for a committed grade.
// Failures are logged only.
func (s *reviewServiceImpl) emitGradeEvents(
	ctx context.Context,
	learnerID uuid.UUID,
	session *domain.ReviewSession,
	award progression.Award,
	record *domain.ProgressRecord,
	minutes int,
) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var pending []*events.ProgressEvent
	add := func(eventType string, payload interface{}) {
		event, err := events.NewProgressEvent(eventType, learnerID, payload)
		if err != nil {
			log.Error("failed to build progress event",
				slog.String("type", eventType),
				slog.String("error", err.Error()))
			return
		}
		pending = append(pending, event)
	}

	if session.Status == domain.SessionCompleted {
		add(events.TypeSessionCompleted, events.SessionCompletedPayload{
			SessionID:   session.ID,
			Language:    session.Language,
			CardCount:   session.CardCount,
			AverageEase: session.AverageEase(),
			Minutes:     minutes,
		})
	}
	if award.LeveledUp {
		add(events.TypeLevelUp, events.LevelUpPayload{
			PreviousLevel: award.PreviousLevel,
			Level:         award.Level,
			Title:         award.Title,
			TotalXP:       record.TotalXP,
		})
	}
	if award.ShieldEarned {
		add(events.TypeStreakShieldEarned, events.StreakShieldPayload{
			Streak:  award.Streak,
			Shields: award.StreakShields,
		})
	}

	for _, event := range pending {
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("failed to emit progress event",
				slog.String("type", event.Type),
				slog.String("error", err.Error()))
		}
	}
}
