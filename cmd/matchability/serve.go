// cmd/matchability/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"matchability/internal/api"
	"matchability/internal/common/camunda"
	"matchability/internal/common/config"
	"matchability/internal/common/database"
	"matchability/internal/common/logger"
	"matchability/internal/common/observability"
	"matchability/internal/scoring"
	"matchability/internal/store"
	scoreopportunity "matchability/internal/workers/opportunity/score-opportunity"
)

const (
	connectRetries    = 5
	connectRetryDelay = 2 * time.Second
	startupTimeout    = 10 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when enabled, the Zeebe worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	log.Info("starting matchability", map[string]interface{}{"version": version})

	bundle, err := a.loadBundle()
	if err != nil {
		return err
	}

	obs := observability.New(cfg.App.Name, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	opts := scoring.Options{
		Observability:     obs,
		SideEffectTimeout: config.GetDuration(cfg.Scoring.SideEffectTimeout),
	}
	checks := map[string]api.Check{}

	if cfg.Database.Postgres.Enabled {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := retryWithBackoff(ctx, log, "PostgreSQL connection", pg.Ping); err != nil {
			return err
		}

		history := store.NewPredictionStore(pg.DB)
		schemaCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		err = history.EnsureSchema(schemaCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("prepare prediction history: %w", err)
		}
		opts.Opportunities = store.NewOpportunityStore(pg.DB)
		opts.History = history
		checks["postgres"] = pg.Ping
		log.Info("PostgreSQL connected", nil)
	}

	if cfg.Database.Redis.Enabled {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		if err := retryWithBackoff(ctx, log, "Redis connection", rdb.Ping); err != nil {
			return err
		}
		opts.Cache = store.NewPredictionCache(rdb.Client, cfg.Cache)
		checks["redis"] = rdb.Ping
		log.Info("Redis connected", nil)
	}

	if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := retryWithBackoff(ctx, log, "Elasticsearch connection", es.Ping); err != nil {
			return err
		}
		opts.Index = store.NewPredictionIndex(es.Client, cfg.Database.Elasticsearch.Index)
		checks["elasticsearch"] = es.Ping
		log.Info("Elasticsearch connected", nil)
	}

	svc := scoring.NewService(scoring.NewScorer(bundle), log, opts)

	if config.IsWorkerEnabled(cfg, config.ScoreOpportunityWorker) {
		zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			return err
		}
		defer zeebe.Close()

		workerCfg := config.GetWorkerConfig(cfg, config.ScoreOpportunityWorker)
		handler := scoreopportunity.NewHandler(scoreopportunity.LoadConfig(workerCfg), svc, log)
		w := camunda.NewWorker(zeebe.Zeebe(), scoreopportunity.TaskType, workerCfg, handler, log)
		defer w.Stop()
		checks["zeebe"] = zeebe.HealthCheck
	}

	srv := api.NewServer(cfg.Server, api.NewHandler(svc, *cfg, checks, log).Router())
	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err})
		return err
	}
	log.Info("shutdown complete", nil)
	return nil
}

// retryWithBackoff pings a dependency until it answers, doubling the
// delay between attempts.
func retryWithBackoff(ctx context.Context, log logger.Logger, name string, ping func(context.Context) error) error {
	delay := connectRetryDelay
	var err error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		err = ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == connectRetries {
			break
		}

		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     attempt,
			"maxRetries":  connectRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, connectRetries, err)
}
