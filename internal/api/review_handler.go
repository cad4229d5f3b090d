package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/review"
)

// ReviewHandler handles review session requests. Every route requires an
// authenticated learner.
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.ReviewService, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// StartSession handles POST /api/sessions. It responds 201 with the new
// session, or 200 with a null session and no cards when nothing is due.
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := shared.LearnerIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	limit := 0
	if req.Limit != nil {
		limit = *req.Limit
	}

	detail, err := h.reviewService.StartSession(r.Context(), learnerID, req.Language, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	if detail == nil {
		log.Debug("no cards due", slog.String("language", req.Language))
		shared.RespondWithJSON(w, r, http.StatusOK, &review.SessionDetail{Cards: []review.SessionCard{}})
		return
	}

	log.Debug("session started",
		slog.String("session_id", detail.Session.ID.String()),
		slog.Int("card_count", detail.Session.CardCount))
	shared.RespondWithJSON(w, r, http.StatusCreated, detail)
}

// GetSession handles GET /api/sessions/{id}.
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	learnerID, sessionID, ok := handleLearnerIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	detail, err := h.reviewService.GetSession(r.Context(), learnerID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// GradeItem handles POST /api/sessions/items/{id}/grade.
func (h *ReviewHandler) GradeItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, itemID, ok := handleLearnerIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	var startedAt time.Time
	if req.SessionStartedAt != nil {
		startedAt = *req.SessionStartedAt
	}

	result, err := h.reviewService.GradeItem(r.Context(), learnerID, itemID, domain.Quality(*req.Quality), startedAt)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade card")
		return
	}

	log.Debug("item graded",
		slog.String("item_id", itemID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("xp_earned", result.XPEarned),
		slog.Bool("is_complete", result.IsComplete))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// AbandonSession handles POST /api/sessions/{id}/abandon.
func (h *ReviewHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	learnerID, sessionID, ok := handleLearnerIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	session, err := h.reviewService.AbandonSession(r.Context(), learnerID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to abandon session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}
