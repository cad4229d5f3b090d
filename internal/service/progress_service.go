package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain/progression"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
)

// Daily stats window bounds.
const (
	DefaultStatDays = 7
	MaxStatDays     = 365
)

// ProgressRepository defines the progress reads the service layer needs.
// store.ProgressStore satisfies it.
type ProgressRepository interface {
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error)
	ListDailyStats(ctx context.Context, learnerID uuid.UUID, from, to domain.Day) ([]domain.DailyStat, error)
}

// ProgressSummary is a learner's progress record with its level position.
type ProgressSummary struct {
	*domain.ProgressRecord
	Accuracy      int  `json:"accuracy"`
	NextLevel     int  `json:"next_level"`
	NextLevelXP   int  `json:"next_level_xp"`
	LevelProgress int  `json:"level_progress"`
	IsMaxLevel    bool `json:"is_max_level"`
	ReviewedToday bool `json:"reviewed_today"`
	StreakAtRisk  bool `json:"streak_at_risk"`
}

// LanguageSummary is the dashboard row for one language.
type LanguageSummary struct {
	Language string `json:"language"`
	store.LanguageCounts
}

// Dashboard combines card counts over the configured languages with the
// learner's progress.
type Dashboard struct {
	Languages     []LanguageSummary `json:"languages"`
	TotalDue      int               `json:"total_due"`
	TotalKnown    int               `json:"total_known"`
	TotalLearning int               `json:"total_learning"`
	Progress      *ProgressSummary  `json:"progress"`
}

// ProgressService reports learner progression.
type ProgressService interface {
	// GetProgress returns the learner's progress, or the level-1 defaults
	// for learners who have never reviewed (and for anonymous callers).
	GetProgress(ctx context.Context, learnerID uuid.UUID) (*ProgressSummary, error)

	// GetDailyStats returns one stat per day for the last days days ending
	// today, oldest first, with zero rows for inactive days. days of 0 uses
	// DefaultStatDays.
	GetDailyStats(ctx context.Context, learnerID uuid.UUID, days int) ([]domain.DailyStat, error)

	// GetDashboard returns counts across every configured language and the
	// progress summary.
	GetDashboard(ctx context.Context, learnerID uuid.UUID) (*Dashboard, error)
}

// progressServiceImpl implements the ProgressService interface
type progressServiceImpl struct {
	progressRepo ProgressRepository
	cardRepo     CardRepository
	ledger       *progression.Ledger
	languages    []string
	now          func() time.Time
	logger       *slog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	progressRepo ProgressRepository,
	cardRepo CardRepository,
	ledger *progression.Ledger,
	languages []string,
	now func() time.Time,
	logger *slog.Logger,
) (ProgressService, error) {
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if ledger == nil {
		ledger = progression.NewLedger(nil, time.UTC)
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]string, 0, len(languages))
	seen := make(map[string]bool, len(languages))
	for _, l := range languages {
		l = domain.NormalizeLanguage(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		normalized = append(normalized, l)
	}

	return &progressServiceImpl{
		progressRepo: progressRepo,
		cardRepo:     cardRepo,
		ledger:       ledger,
		languages:    normalized,
		now:          now,
		logger:       logger.With(slog.String("component", "progress_service")),
	}, nil
}

// GetProgress implements ProgressService.GetProgress
func (s *progressServiceImpl) GetProgress(ctx context.Context, learnerID uuid.UUID) (*ProgressSummary, error) {
	if learnerID == uuid.Nil {
		return s.summarize(s.ledger.DefaultRecord(uuid.Nil)), nil
	}

	record, err := s.progressRepo.Get(ctx, learnerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return s.summarize(s.ledger.DefaultRecord(learnerID)), nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, NewProgressServiceError("get_progress", "failed to get progress", err)
	}
	return s.summarize(record), nil
}

func (s *progressServiceImpl) summarize(record *domain.ProgressRecord) *ProgressSummary {
	info := s.ledger.Levels().FromXP(record.TotalXP)
	today := s.ledger.Today(s.now())

	summary := &ProgressSummary{
		ProgressRecord: record,
		Accuracy:       record.Accuracy(),
		NextLevel:      info.Next.Number,
		NextLevelXP:    info.Next.XPRequired,
		LevelProgress:  info.Progress,
		IsMaxLevel:     info.Current.Number == info.Next.Number,
	}
	if !record.LastReviewDate.IsZero() {
		summary.ReviewedToday = !record.LastReviewDate.Before(today)
		summary.StreakAtRisk = record.CurrentStreak > 0 && record.LastReviewDate.Equal(today.AddDays(-1))
	}
	return summary
}

// GetDailyStats implements ProgressService.GetDailyStats
func (s *progressServiceImpl) GetDailyStats(
	ctx context.Context,
	learnerID uuid.UUID,
	days int,
) ([]domain.DailyStat, error) {
	if days == 0 {
		days = DefaultStatDays
	}
	if days < 1 || days > MaxStatDays {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidDays, MaxStatDays)
	}

	today := s.ledger.Today(s.now())
	if learnerID == uuid.Nil {
		return domain.FillDailyStats(learnerID, nil, today, days), nil
	}

	stats, err := s.progressRepo.ListDailyStats(ctx, learnerID, today.AddDays(-(days - 1)), today)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.Int("days", days))
		return nil, NewProgressServiceError("get_daily_stats", "failed to list daily stats", err)
	}
	return domain.FillDailyStats(learnerID, stats, today, days), nil
}

// GetDashboard implements ProgressService.GetDashboard
func (s *progressServiceImpl) GetDashboard(ctx context.Context, learnerID uuid.UUID) (*Dashboard, error) {
	progress, err := s.GetProgress(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	counts := map[string]store.LanguageCounts{}
	if learnerID != uuid.Nil && len(s.languages) > 0 {
		counts, err = s.cardRepo.CountsByLanguage(ctx, learnerID, s.languages, s.now())
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
				slog.String("error", err.Error()),
				slog.String("learner_id", learnerID.String()))
			return nil, NewProgressServiceError("get_dashboard", "failed to count cards", err)
		}
	}

	dash := &Dashboard{
		Languages: make([]LanguageSummary, 0, len(s.languages)),
		Progress:  progress,
	}
	for _, language := range s.languages {
		c := counts[language]
		dash.Languages = append(dash.Languages, LanguageSummary{Language: language, LanguageCounts: c})
		dash.TotalDue += c.Due
		dash.TotalKnown += c.Known
		dash.TotalLearning += c.Learning
	}
	return dash, nil
}
