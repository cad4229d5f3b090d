package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Ymit24/language-reader-app-sub000/internal/config"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain/progression"
	"github.com/Ymit24/language-reader-app-sub000/internal/domain/srs"
	"github.com/Ymit24/language-reader-app-sub000/internal/events"
	"github.com/Ymit24/language-reader-app-sub000/internal/platform/postgres"
	redislimit "github.com/Ymit24/language-reader-app-sub000/internal/platform/redis"
	"github.com/Ymit24/language-reader-app-sub000/internal/ratelimit"
	"github.com/Ymit24/language-reader-app-sub000/internal/service"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/auth"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/review"
	"github.com/Ymit24/language-reader-app-sub000/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	cardStore     store.CardStore
	sessionStore  store.SessionStore
	progressStore store.ProgressStore

	jwtService      auth.JWTService
	srsService      srs.Service
	ledger          *progression.Ledger
	cardService     service.CardService
	progressService service.ProgressService
	reviewService   review.ReviewService

	eventEmitter events.EventEmitter
	limiter      ratelimit.Limiter
}

// newApplication creates a new application instance with all dependencies initialized.
// Configuration, logger and database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT validation initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	app.srsService, err = srs.NewDefaultService()
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}
	levels, err := levelTable(cfg.Review.Levels)
	if err != nil {
		return nil, fmt.Errorf("failed to build level table: %w", err)
	}
	app.ledger = progression.NewLedger(levels, cfg.Review.Location())

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.eventEmitter = emitter

	app.cardService, err = service.NewCardService(
		app.cardStore,
		cfg.Review.SupportedLanguages,
		nil,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.progressService, err = service.NewProgressService(
		app.progressStore,
		app.cardStore,
		app.ledger,
		cfg.Review.SupportedLanguages,
		nil,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	app.reviewService = review.NewReviewService(
		review.NewCardRepositoryAdapter(app.cardStore, db),
		review.NewSessionRepositoryAdapter(app.sessionStore),
		review.NewProgressRepositoryAdapter(app.progressStore),
		app.srsService,
		app.ledger,
		app.eventEmitter,
		review.Config{
			DefaultLimit: cfg.Review.DefaultSessionSize,
			MaxLimit:     cfg.Review.MaxSessionSize,
			Languages:    cfg.Review.SupportedLanguages,
		},
		logger,
	)

	app.limiter, err = app.setupLimiter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up rate limiter: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// levelTable converts configured levels. No levels means the built-in table.
func levelTable(levels []config.LevelConfig) (progression.LevelTable, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	rows := make([]progression.Level, 0, len(levels))
	for _, l := range levels {
		rows = append(rows, progression.Level{Number: l.Level, XPRequired: l.XPRequired, Title: l.Title})
	}
	return progression.NewLevelTable(rows)
}

// setupLimiter uses Redis when configured so every instance shares one
// window, and an in-process limiter otherwise.
func (app *application) setupLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	cfg := app.config.RateLimit
	if app.config.Redis.URL == "" {
		app.logger.Info("Using in-memory rate limiter",
			"requests", cfg.Requests,
			"window_seconds", cfg.WindowSeconds)
		return ratelimit.NewMemoryLimiter(cfg.Requests, cfg.Window())
	}

	client, err := redislimit.NewClient(ctx, app.config.Redis.URL)
	if err != nil {
		return nil, err
	}
	app.redis = client

	app.logger.Info("Using Redis rate limiter",
		"requests", cfg.Requests,
		"window_seconds", cfg.WindowSeconds)
	return redislimit.NewLimiter(client, cfg.Requests, cfg.Window(), app.logger)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing Redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
