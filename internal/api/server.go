// Package api exposes scoring over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matchability/internal/common/config"
	"matchability/internal/common/logger"
	"matchability/internal/features"
	"matchability/internal/models"
	"matchability/internal/scoring"
)

const defaultMaxBodyBytes = 1 << 20

// ScoringService is the part of scoring.Service the API needs.
type ScoringService interface {
	ScoreRecord(ctx context.Context, r features.Record, source models.Source) (*models.Prediction, error)
	ScoreStored(ctx context.Context, opportunityID string) (*models.Prediction, error)
	History(ctx context.Context, opportunityID string, limit int) ([]models.Prediction, error)
	Success(p *models.Prediction) scoring.Response
	Failure(err error) scoring.Response
	ModelVersion() string
}

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	scoring      ScoringService
	log          logger.Logger
	checks       map[string]Check
	maxBodyBytes int64
	timeout      time.Duration
}

func NewHandler(svc ScoringService, cfg config.Config, checks map[string]Check, log logger.Logger) *Handler {
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		scoring:      svc,
		log:          log.Named("api"),
		checks:       checks,
		maxBodyBytes: maxBody,
		timeout:      time.Duration(cfg.Scoring.RequestTimeout) * time.Millisecond,
	}
}

// Router builds the chi router with request ids, logging and panic
// recovery in front of every route.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestContext)
	r.Use(h.requestLogger)
	r.Use(h.recoverer)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}

	r.Route("/api/opportunity", func(r chi.Router) {
		r.Post("/", h.handleScore)
		r.Get("/", h.handleGreeting)
		r.Get("/{id}/score", h.handleScoreStored)
		r.Get("/{id}/predictions", h.handlePredictions)
	})

	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// NewServer wraps the router with the configured timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Millisecond,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Millisecond,
	}
}
