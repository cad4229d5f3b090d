package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/review"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) UpsertCard(
	ctx context.Context,
	learnerID uuid.UUID,
	req service.UpsertCardRequest,
) (*domain.VocabularyCard, error) {
	args := m.Called(ctx, learnerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VocabularyCard), args.Error(1)
}

func (m *MockCardService) DueCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error) {
	args := m.Called(ctx, learnerID, language)
	return args.Int(0), args.Error(1)
}

func (m *MockCardService) KnownCount(ctx context.Context, learnerID uuid.UUID, language string) (int, error) {
	args := m.Called(ctx, learnerID, language)
	return args.Int(0), args.Error(1)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetProgress(ctx context.Context, learnerID uuid.UUID) (*service.ProgressSummary, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgressSummary), args.Error(1)
}

func (m *MockProgressService) GetDailyStats(
	ctx context.Context,
	learnerID uuid.UUID,
	days int,
) ([]domain.DailyStat, error) {
	args := m.Called(ctx, learnerID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyStat), args.Error(1)
}

func (m *MockProgressService) GetDashboard(ctx context.Context, learnerID uuid.UUID) (*service.Dashboard, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) StartSession(
	ctx context.Context,
	learnerID uuid.UUID,
	language string,
	limit int,
) (*review.SessionDetail, error) {
	args := m.Called(ctx, learnerID, language, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.SessionDetail), args.Error(1)
}

func (m *MockReviewService) GradeItem(
	ctx context.Context,
	learnerID uuid.UUID,
	itemID uuid.UUID,
	quality domain.Quality,
	sessionStartedAt time.Time,
) (*review.GradeResult, error) {
	args := m.Called(ctx, learnerID, itemID, quality, sessionStartedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.GradeResult), args.Error(1)
}

func (m *MockReviewService) AbandonSession(
	ctx context.Context,
	learnerID uuid.UUID,
	sessionID uuid.UUID,
) (*domain.ReviewSession, error) {
	args := m.Called(ctx, learnerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSession), args.Error(1)
}

func (m *MockReviewService) GetSession(
	ctx context.Context,
	learnerID uuid.UUID,
	sessionID uuid.UUID,
) (*review.SessionDetail, error) {
	args := m.Called(ctx, learnerID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.SessionDetail), args.Error(1)
}

// newRequest builds a request with optional learner and chi URL params
// given as name, value pairs.
func newRequest(method, target, body string, learnerID uuid.UUID, params ...string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	ctx := req.Context()
	if learnerID != uuid.Nil {
		ctx = shared.WithLearnerID(ctx, learnerID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
