package main

import (
	"net/http"

	"github.com/Ymit24/language-reader-app-sub000/internal/api"
	apiMiddleware "github.com/Ymit24/language-reader-app-sub000/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	rateLimit := apiMiddleware.RateLimit(app.limiter)

	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Queries answer anonymous callers with zero defaults
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuth)
			r.Get("/languages/{lang}/due-count", cardHandler.GetDueCount)
			r.Get("/languages/{lang}/known-count", cardHandler.GetKnownCount)
			r.Get("/dashboard", progressHandler.GetDashboard)
			r.Get("/progress", progressHandler.GetProgress)
			r.Get("/progress/daily", progressHandler.GetDailyStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/sessions/{id}", reviewHandler.GetSession)

			r.Group(func(r chi.Router) {
				r.Use(rateLimit)
				r.Put("/cards", cardHandler.UpsertCard)
				r.Post("/sessions", reviewHandler.StartSession)
				r.Post("/sessions/items/{id}/grade", reviewHandler.GradeItem)
				r.Post("/sessions/{id}/abandon", reviewHandler.AbandonSession)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
