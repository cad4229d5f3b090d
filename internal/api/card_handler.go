package api

import (
	"log/slog"
	"net/http"

	"github.com/Ymit24/language-reader-app-sub000/internal/api/shared"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/logger"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
	"github.com/go-chi/chi/v5"
)

// CardHandler handles card ingestion and per-language counters.
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// UpsertCard handles PUT /api/cards.
func (h *CardHandler) UpsertCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := shared.LearnerIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpsertCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.UpsertCard(r.Context(), learnerID, service.UpsertCardRequest{
		Language:    req.Language,
		Term:        req.Term,
		DisplayForm: req.DisplayForm,
		Status:      domain.CardStatus(*req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save card")
		return
	}

	log.Debug("card saved",
		slog.String("card_id", card.ID.String()),
		slog.String("status", card.Status.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// GetDueCount handles GET /api/languages/{lang}/due-count.
func (h *CardHandler) GetDueCount(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "lang")
	count, err := h.cardService.DueCount(r.Context(), learnerIDFromRequest(r), language)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{
		Language: domain.NormalizeLanguage(language),
		Count:    count,
	})
}

// GetKnownCount handles GET /api/languages/{lang}/known-count.
func (h *CardHandler) GetKnownCount(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "lang")
	count, err := h.cardService.KnownCount(r.Context(), learnerIDFromRequest(r), language)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count known cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{
		Language: domain.NormalizeLanguage(language),
		Count:    count,
	})
}
