package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/config"
	"github.com/skillforge/certification-service/internal/delivery/httpd"
	"github.com/skillforge/certification-service/internal/repository"
	"github.com/skillforge/certification-service/internal/service"
	"github.com/skillforge/certification-service/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	publisher, err := integration.NewRabbitMQPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.ReceivedQueue,
		cfg.RabbitMQ.ReviewedQueue,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		// notifications degrade to nothing without the broker; the workflow
		// itself does not depend on it
	}

	projectRepo := repository.NewProjectRepository(db, log)
	phaseRepo := repository.NewPhaseRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)

	projectService := service.NewProjectService(projectRepo, phaseRepo, submissionRepo, log)
	submissionService := service.NewSubmissionService(projectRepo, phaseRepo, submissionRepo, publisher, log)
	reviewService := service.NewReviewService(projectRepo, phaseRepo, submissionRepo, publisher, log)

	handler := httpd.NewHandler(
		projectService,
		submissionService,
		reviewService,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting certification service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down certification service...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
