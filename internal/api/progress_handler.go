package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
)

// ProgressHandler serves progression reads. Every route accepts anonymous
// callers, who receive the level-1 defaults.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if progressService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressService cannot be nil for ProgressHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /api/progress.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progressService.GetProgress(r.Context(), learnerIDFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// GetDailyStats handles GET /api/progress/daily?days=N.
func (h *ProgressHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Days must be a number", err)
			return
		}
		if parsed == 0 {
			parsed = -1
		}
		days = parsed
	}

	stats, err := h.progressService.GetDailyStats(r.Context(), learnerIDFromRequest(r), days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get daily stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DailyStatsResponse{Days: len(stats), Stats: stats})
}

// GetDashboard handles GET /api/dashboard.
func (h *ProgressHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.progressService.GetDashboard(r.Context(), learnerIDFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load dashboard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dash)
}
