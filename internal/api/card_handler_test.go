package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCardHandler_UpsertCard(t *testing.T) {
	learner := uuid.New()
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	t.Run("saves card", func(t *testing.T) {
		svc := &MockCardService{}
		h := NewCardHandler(svc, slog.Default())

		card := &domain.VocabularyCard{
			ID:           uuid.New(),
			LearnerID:    learner,
			Language:     "de",
			Term:         "hund",
			DisplayForm:  "Hund",
			Status:       domain.StatusLearning1,
			Ease:         domain.DefaultEase,
			NextReviewAt: &now,
		}
		svc.On("UpsertCard", mock.Anything, learner, service.UpsertCardRequest{
			Language:    "de",
			Term:        "hund",
			DisplayForm: "Hund",
			Status:      domain.StatusLearning1,
		}).Return(card, nil)

		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards",
			`{"language":"de","term":"hund","display_form":"Hund","status":1}`, learner))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp CardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, card.ID, resp.ID)
		assert.Equal(t, "learning", resp.StatusName)
		svc.AssertExpectations(t)
	})

	t.Run("status zero is accepted", func(t *testing.T) {
		svc := &MockCardService{}
		h := NewCardHandler(svc, slog.Default())
		svc.On("UpsertCard", mock.Anything, learner, mock.MatchedBy(func(req service.UpsertCardRequest) bool {
			return req.Status == domain.StatusNew
		})).Return(&domain.VocabularyCard{ID: uuid.New(), Status: domain.StatusNew}, nil)

		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards",
			`{"language":"de","term":"katze","status":0}`, learner))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("requires learner", func(t *testing.T) {
		h := NewCardHandler(&MockCardService{}, slog.Default())
		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards", `{"language":"de","term":"x","status":1}`, uuid.Nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		h := NewCardHandler(&MockCardService{}, slog.Default())
		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards", `{"language":"de","term":"x"}`, learner))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid status")
	})

	t.Run("unknown field", func(t *testing.T) {
		h := NewCardHandler(&MockCardService{}, slog.Default())
		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards",
			`{"language":"de","term":"x","status":1,"learner_id":"someone"}`, learner))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid request format")
	})

	t.Run("service rejects status", func(t *testing.T) {
		svc := &MockCardService{}
		h := NewCardHandler(svc, slog.Default())
		svc.On("UpsertCard", mock.Anything, learner, mock.Anything).Return(nil, domain.ErrInvalidStatus)

		rec := httptest.NewRecorder()
		h.UpsertCard(rec, newRequest(http.MethodPut, "/api/cards", `{"language":"de","term":"x","status":7}`, learner))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid card status")
	})
}

func TestCardHandler_Counts(t *testing.T) {
	learner := uuid.New()
	svc := &MockCardService{}
	h := NewCardHandler(svc, slog.Default())

	svc.On("DueCount", mock.Anything, learner, "DE").Return(6, nil)
	svc.On("KnownCount", mock.Anything, uuid.Nil, "fr").Return(0, nil)
	svc.On("DueCount", mock.Anything, learner, "xx").Return(0, service.ErrUnsupportedLanguage)

	rec := httptest.NewRecorder()
	h.GetDueCount(rec, newRequest(http.MethodGet, "/api/languages/DE/due-count", "", learner, "lang", "DE"))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CountResponse{Language: "de", Count: 6}, resp)

	rec = httptest.NewRecorder()
	h.GetKnownCount(rec, newRequest(http.MethodGet, "/api/languages/fr/known-count", "", uuid.Nil, "lang", "fr"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)

	rec = httptest.NewRecorder()
	h.GetDueCount(rec, newRequest(http.MethodGet, "/api/languages/xx/due-count", "", learner, "lang", "xx"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	t.Run("store failure", func(t *testing.T) {
		svc := &MockCardService{}
		h := NewCardHandler(svc, slog.Default())
		svc.On("KnownCount", mock.Anything, learner, "de").
			Return(0, service.NewCardServiceError("known_count", "failed", errors.New("timeout")))

		rec := httptest.NewRecorder()
		h.GetKnownCount(rec, newRequest(http.MethodGet, "/", "", learner, "lang", "de"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to count known cards")
	})
}

func TestNewCardHandler_Panics(t *testing.T) {
	assert.Panics(t, func() { NewCardHandler(nil, slog.Default()) })
	assert.Panics(t, func() { NewCardHandler(&MockCardService{}, nil) })
}
