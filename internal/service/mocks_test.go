package service_test

import (
	"context"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of service.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Upsert(ctx context.Context, card *domain.VocabularyCard) (*domain.VocabularyCard, error) {
	args := m.Called(ctx, card)
	if fn, ok := args.Get(0).(func(context.Context, *domain.VocabularyCard) *domain.VocabularyCard); ok {
		return fn(ctx, card), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VocabularyCard), args.Error(1)
}

func (m *MockCardRepository) CountsByLanguage(
	ctx context.Context,
	learnerID uuid.UUID,
	languages []string,
	now time.Time,
) (map[string]store.LanguageCounts, error) {
	args := m.Called(ctx, learnerID, languages, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]store.LanguageCounts), args.Error(1)
}

// MockProgressRepository is a mock implementation of service.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, learnerID uuid.UUID) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) ListDailyStats(
	ctx context.Context,
	learnerID uuid.UUID,
	from, to domain.Day,
) ([]domain.DailyStat, error) {
	args := m.Called(ctx, learnerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyStat), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }
