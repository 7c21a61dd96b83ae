// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/cache"
	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/profile"
)

// Dependencies are the collaborators an Engine orchestrates.
type Dependencies struct {
	Profiles ProfileStore
	Catalog  CatalogSearcher
	Selector Selector
	Ranker   Ranker
	Results  ResultCache // nil disables result caching
	Random   Randomizer  // nil uses NewRandomizer(cfg.Seed)
	Keywords KeywordTable
}

// Engine runs the recommendation pipeline. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	profiles ProfileStore
	catalog  CatalogSearcher
	planner  *Planner
	fetcher  *Fetcher
	selector Selector
	ranker   Ranker
	results  ResultCache
	keywords KeywordTable

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	errorCount   atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	CacheHits int64 `json:"cache_hits"`
	Errors    int64 `json:"errors"`

	// Result cache figures, when the cache reports them.
	CachedEntries int     `json:"cached_entries"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
}

// resultCacheStats is implemented by *cache.ResultCache.
type resultCacheStats interface {
	Len() int
	HitRate() float64
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Profiles == nil || deps.Catalog == nil || deps.Selector == nil || deps.Ranker == nil {
		return nil, errors.New("profiles, catalog, selector and ranker are required")
	}
	if deps.Random == nil {
		deps.Random = NewRandomizer(cfg.Seed)
	}
	if deps.Keywords == nil {
		deps.Keywords = DefaultKeywords
	}

	logger = logger.With().Str("component", "recommend").Logger()
	return &Engine{
		config:   cfg,
		logger:   logger,
		profiles: deps.Profiles,
		catalog:  deps.Catalog,
		planner:  NewPlanner(deps.Keywords, cfg.MaxTargets, cfg.DefaultCategories, deps.Random),
		fetcher:  NewFetcher(deps.Catalog, cfg, logger),
		selector: deps.Selector,
		ranker:   deps.Ranker,
		results:  deps.Results,
		keywords: deps.Keywords,
	}, nil
}

// Recommend runs the pipeline for req. Failures are returned as *Error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()

	result, err := e.recommend(ctx, req, logger)

	outcome := "success"
	switch {
	case err != nil:
		e.errorCount.Add(1)
		outcome = KindOf(err).String()
		logger.Warn().Err(err).Str("outcome", outcome).Dur("elapsed", time.Since(start)).Msg("recommendation failed")
	case result.Cached:
		outcome = "cached"
	}
	metrics.RecommendationOutcomes.WithLabelValues(outcome).Inc()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Bool("cached", result.Cached).
		Int("returned", len(result.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation complete")
	return result, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, logger zerolog.Logger) (*Result, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, NewError(KindInput, "userId is required", nil)
	}

	uc, err := e.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Cache check
	cacheKey := cache.ResultKey(req.UserID, uc.UpdatedAt, req.ExcludeItemCodes)
	if e.results != nil {
		if recs, ok := e.results.Get(cacheKey); ok {
			e.cacheHits.Add(1)
			logger.Debug().Msg("result cache hit")
			return &Result{Recommendations: recs, Cached: true, RequestID: req.RequestID}, nil
		}
	}

	if err := e.catalog.Ready(); err != nil {
		return nil, NewError(KindConfig, "catalog API credentials are missing", err)
	}

	// Retrieve
	targets := e.planner.Plan(uc)
	exclude := make(map[string]struct{}, len(req.ExcludeItemCodes))
	for _, code := range req.ExcludeItemCodes {
		exclude[code] = struct{}{}
	}
	fetched := e.fetcher.Fetch(ctx, targets, uc.Budget, exclude)
	metrics.ObserveCandidates("fetched", len(fetched.Items))
	logger.Debug().
		Int("targets", len(targets)).
		Int("failed_targets", fetched.Failed).
		Int("candidates", len(fetched.Items)).
		Msg("candidates fetched")

	if len(fetched.Items) == 0 {
		if ctx.Err() != nil {
			return nil, NewError(KindTimeout, "deadline passed while searching the catalog", ctx.Err())
		}
		return nil, NewError(KindNoCandidates, fmt.Sprintf("%d searches, %d failed", len(targets), fetched.Failed), nil)
	}

	// Score and select
	ScoreAll(fetched.Items, NewScoringContext(uc, e.keywords))
	shortlist := e.selector.Select(ctx, fetched.Items, targets, e.config.ShortlistSize)
	metrics.ObserveCandidates("shortlisted", len(shortlist))
	if len(shortlist) == 0 {
		return nil, NewError(KindNoQualifying, fmt.Sprintf("%d candidates, none scored above zero", len(fetched.Items)), nil)
	}

	// Rank
	recs, err := e.ranker.Rank(ctx, uc, shortlist)
	if err != nil {
		var perr *Error
		if !errors.As(err, &perr) {
			err = NewError(KindAI, "", err)
		}
		return nil, err
	}
	metrics.ObserveCandidates("recommended", len(recs))

	if e.results != nil && len(recs) > 0 {
		e.results.Set(cacheKey, recs)
	}
	return &Result{Recommendations: recs, RequestID: req.RequestID}, nil
}

func (e *Engine) loadUser(ctx context.Context, userID string) (UserContext, error) {
	p, err := e.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return UserContext{}, NewError(KindNotFound, "", err)
	case err != nil:
		return UserContext{}, NewError(KindInternal, "profile lookup failed", err)
	case p == nil || p.Preferences == nil:
		return UserContext{}, NewError(KindNoUserData, "user has not set preferences", nil)
	}
	return NewUserContext(p, e.config.DefaultCategories), nil
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Requests:  e.requestCount.Load(),
		CacheHits: e.cacheHits.Load(),
		Errors:    e.errorCount.Load(),
	}
	if rc, ok := e.results.(resultCacheStats); ok {
		s.CachedEntries = rc.Len()
		s.CacheHitRate = rc.HitRate()
	}
	return s
}

// compile-time check that the shared cache satisfies ResultCache
var (
	_ ResultCache      = (*cache.ResultCache[[]models.Recommendation])(nil)
	_ resultCacheStats = (*cache.ResultCache[[]models.Recommendation])(nil)
)
