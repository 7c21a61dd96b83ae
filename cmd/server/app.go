// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/ai"
	"github.com/tomtom215/shortlist/internal/cache"
	"github.com/tomtom215/shortlist/internal/catalog"
	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/logging"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/profile"
	"github.com/tomtom215/shortlist/internal/recommend"
	"github.com/tomtom215/shortlist/internal/recommend/reranking"
)

// app holds the long-lived components and the resources they own.
type app struct {
	catalogStore cache.Store // nil when the persisted cache is disabled
	catalogCache *cache.CatalogCache
	searcher     *catalog.CachedSearcher
	ranker       *ai.Ranker
	engine       *recommend.Engine

	closers []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].c.Close(); err != nil {
			logging.Err(err).Str("resource", a.closers[i].name).Msg("Error closing resource")
		}
	}
	a.closers = nil
}

func (a *app) own(name string, c io.Closer) {
	a.closers = append(a.closers, namedCloser{name: name, c: c})
}

// buildApp wires the pipeline. On error everything acquired so far is closed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.catalogStore, err = openCatalogStore(ctx, &cfg.Cache)
	if err != nil {
		return nil, err
	}
	if a.catalogStore != nil {
		a.own("catalog cache", a.catalogStore)
	}
	a.catalogCache = cache.NewCatalogCache(a.catalogStore, cfg.Cache.CatalogTTL, logger)
	logging.Info().Str("backend", a.catalogCache.Backend()).Msg("Catalog cache ready")

	profiles, err := openProfileStore(ctx, a, &cfg.Profile)
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient(&cfg.Catalog, logger)
	if err := client.Ready(); err != nil {
		logging.Warn().Err(err).Msg("Catalog search not configured; recommendations will fail until CATALOG_APPLICATION_ID is set")
	}
	a.searcher = catalog.NewCachedSearcher(client, a.catalogCache, cfg.Catalog.Sort)

	var gen ai.Generator
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiGenerator(ctx, &cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		a.own("gemini", gemini)
		gen = gemini
		logging.Info().Str("model", cfg.AI.Model).Msg("Gemini ranking enabled")
	} else {
		logging.Warn().Msg("GEMINI_API_KEY not set; recommendations will fail with a configuration error")
	}
	a.ranker = ai.NewRanker(gen, &cfg.AI, logger)

	engineCfg := engineConfig(cfg)
	logging.Debug().
		Int("shortlist_size", engineCfg.ShortlistSize).
		Int("max_targets", engineCfg.MaxTargets).
		Strs("default_categories", engineCfg.DefaultCategories).
		Int("fetch_concurrency", engineCfg.FetchConcurrency).
		Msg("Recommendation engine settings")

	a.engine, err = recommend.NewEngine(engineCfg, recommend.Dependencies{
		Profiles: profiles,
		Catalog:  a.searcher,
		Selector: reranking.NewDiversity(),
		Ranker:   a.ranker,
		Results:  cache.NewResultCache[[]models.Recommendation](cfg.Cache.ResultTTL, cfg.Cache.ResultMaxEntries),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	return a, nil
}

// engineConfig maps service configuration onto the engine's settings.
func engineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		ShortlistSize:     cfg.Recommend.ShortlistSize,
		MaxTargets:        cfg.Recommend.MaxTargets,
		DefaultCategories: cfg.Recommend.DefaultCategories,
		ResultCap:         cfg.Catalog.ResultCap,
		MaxPriceFloor:     cfg.Catalog.MaxPriceFloor,
		FetchConcurrency:  cfg.Catalog.FetchConcurrency,
		PerTargetTimeout:  cfg.Catalog.PerTargetTimeout,
		Seed:              cfg.Recommend.Seed,
	}
}

// openCatalogStore returns a nil Store for the "none" backend.
func openCatalogStore(ctx context.Context, cfg *config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "badger":
		store, err := cache.OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// openProfileStore registers any database handle with a for closing.
func openProfileStore(ctx context.Context, a *app, cfg *config.ProfileConfig) (recommend.ProfileStore, error) {
	switch cfg.Backend {
	case "postgres":
		db, err := profile.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.own("profile database", db)
		return profile.NewPostgresStore(db), nil
	case "memory", "":
		if cfg.SeedFile == "" {
			logging.Warn().Msg("Profile store is empty; set PROFILE_SEED_FILE or use the postgres backend")
			return profile.NewMemoryStore(), nil
		}
		store, err := profile.LoadMemoryStore(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		logging.Info().Int("profiles", store.Len()).Str("file", cfg.SeedFile).Msg("Loaded profile seed file")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown profile backend %q", cfg.Backend)
	}
}
