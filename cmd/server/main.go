// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/shortlist/internal/api"
	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/logging"
	"github.com/tomtom215/shortlist/internal/supervisor"
	"github.com/tomtom215/shortlist/internal/supervisor/services"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load() //nolint:errcheck // optional file

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logging.Fatal().Err(err).Msg("Shortlist stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run builds every component, serves until ctx is canceled, and releases
// resources in reverse order of acquisition.
func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.With().Str("service", "shortlist").Logger()
	logging.Info().
		Str("cache_backend", cfg.Cache.Backend).
		Str("profile_backend", cfg.Profile.Backend).
		Str("model", cfg.AI.Model).
		Msg("Starting Shortlist")

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	handler := api.NewHandler(api.HandlerConfig{
		Engine:         app.engine,
		RequestTimeout: cfg.Server.RequestTimeout,
		CacheBackend:   app.catalogCache.Backend(),
		CatalogReady:   app.searcher.Ready,
		AIConfigured:   app.ranker.Configured(),
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if app.catalogStore != nil && cfg.Cache.PruneInterval > 0 {
		tree.AddMaintenanceService(services.NewPruneService(app.catalogCache, cfg.Cache.PruneInterval, logger))
		logging.Info().Dur("interval", cfg.Cache.PruneInterval).Msg("Catalog cache pruning added")
	}

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 { //nolint:errcheck // best-effort report
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	stats := app.engine.Stats()
	logging.Info().
		Int64("requests", stats.Requests).
		Int64("cache_hits", stats.CacheHits).
		Int64("errors", stats.Errors).
		Int("cached_entries", stats.CachedEntries).
		Float64("cache_hit_rate", stats.CacheHitRate).
		Msg("Recommendation engine totals")
	return nil
}
