package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

// CardRepository defines the card persistence the service layer needs.
// store.CardStore satisfies it.
type CardRepository interface {
	// Upsert inserts or updates a learner's card for a term
	Upsert(ctx context.Context, card *domain.VocabularyCard) (*domain.VocabularyCard, error)

	// CountsByLanguage returns the due, known and learning counts per language
	CountsByLanguage(
		ctx context.Context,
		learnerID uuid.UUID,
		languages []string,
		now time.Time,
	) (map[string]store.LanguageCounts, error)
}

// UpsertCardRequest carries a status change reported by the reader.
type UpsertCardRequest struct {
	Language    string
	Term        string
	DisplayForm string
	Status      domain.CardStatus
}

// CardService handles vocabulary card ingestion and counters.
type CardService interface {
	// UpsertCard creates or updates the learner's card for a term. A card
	// moving into Learning with no schedule becomes due immediately.
	UpsertCard(ctx context.Context, learnerID uuid.UUID, req UpsertCardRequest) (*domain.VocabularyCard, error)

	// DueCount returns how many cards are due in language. Anonymous
	// learners get 0.
	DueCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error)

	// KnownCount returns how many cards are known in language. Anonymous
	// learners get 0.
	KnownCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error)
}

// languageSet is the set of configured languages. An empty set allows all.
type languageSet map[string]struct{}

func newLanguageSet(languages []string) languageSet {
	set := make(languageSet, len(languages))
	for _, l := range languages {
		set[domain.NormalizeLanguage(l)] = struct{}{}
	}
	return set
}

func (s languageSet) check(language string) error {
	if language == "" {
		return fmt.Errorf("%w: language is required", ErrUnsupportedLanguage)
	}
	if len(s) == 0 {
		return nil
	}
	if _, ok := s[language]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return nil
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cardRepo  CardRepository
	languages languageSet
	now       func() time.Time
	logger    *slog.Logger
}

// NewCardService creates a new CardService. languages restricts which
// languages may be used; now defaults to time.Now.
func NewCardService(
	cardRepo CardRepository,
	languages []string,
	now func() time.Time,
	logger *slog.Logger,
) (CardService, error) {
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cardServiceImpl{
		cardRepo:  cardRepo,
		languages: newLanguageSet(languages),
		now:       now,
		logger:    logger.With(slog.String("component", "card_service")),
	}, nil
}

// UpsertCard implements CardService.UpsertCard
func (s *cardServiceImpl) UpsertCard(
	ctx context.Context,
	learnerID uuid.UUID,
	req UpsertCardRequest,
) (*domain.VocabularyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	language := domain.NormalizeLanguage(req.Language)
	if err := s.languages.check(language); err != nil {
		return nil, err
	}

	card, err := domain.NewVocabularyCard(learnerID, language, req.Term, req.DisplayForm, req.Status, s.now())
	if err != nil {
		return nil, err
	}

	stored, err := s.cardRepo.Upsert(ctx, card)
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		log.Error("failed to upsert card",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("language", language))
		return nil, NewCardServiceError("upsert_card", "failed to save card", err)
	}

	log.Debug("card upserted",
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", stored.ID.String()),
		slog.String("status", stored.Status.String()))
	return stored, nil
}

// DueCount implements CardService.DueCount
func (s *cardServiceImpl) DueCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error) {
	counts, err := s.counts(ctx, "due_count", learnerID, language)
	if err != nil {
		return 0, err
	}
	return counts.Due, nil
}

// KnownCount implements CardService.KnownCount
func (s *cardServiceImpl) KnownCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error) {
	counts, err := s.counts(ctx, "known_count", learnerID, language)
	if err != nil {
		return 0, err
	}
	return counts.Known, nil
}

func (s *cardServiceImpl) counts(
	ctx context.Context,
	operation string,
	learnerID uuid.UUID,
	language string,
) (store.LanguageCounts, error) {
	language = domain.NormalizeLanguage(language)
	if err := s.languages.check(language); err != nil {
		return store.LanguageCounts{}, err
	}
	if learnerID == uuid.Nil {
		return store.LanguageCounts{}, nil
	}

	byLanguage, err := s.cardRepo.CountsByLanguage(ctx, learnerID, []string{language}, s.now())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("language", language))
		return store.LanguageCounts{}, NewCardServiceError(operation, "failed to count cards", err)
	}
	return byLanguage[language], nil
}
