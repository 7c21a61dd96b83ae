// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the service cannot run with.
//
// Missing catalog or AI credentials are deliberately not rejected here: the
// service starts and reports them per request as configuration errors.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateProfile(); err != nil {
		return err
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	cat := c.Catalog
	if cat.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if cat.ResultCap < 1 || cat.ResultCap > 30 {
		return fmt.Errorf("catalog.result_cap must be in [1, 30], got %d", cat.ResultCap)
	}
	if cat.MaxRetries < 0 {
		return fmt.Errorf("catalog.max_retries must be non-negative, got %d", cat.MaxRetries)
	}
	if cat.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog.requests_per_second must be positive, got %f", cat.RequestsPerSecond)
	}
	if cat.Burst < 1 {
		return fmt.Errorf("catalog.burst must be positive, got %d", cat.Burst)
	}
	if cat.FetchConcurrency < 1 {
		return fmt.Errorf("catalog.fetch_concurrency must be positive, got %d", cat.FetchConcurrency)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.ResultTTL <= 0 {
		return fmt.Errorf("cache.result_ttl must be positive, got %v", c.Cache.ResultTTL)
	}
	if c.Cache.ResultMaxEntries < 1 {
		return fmt.Errorf("cache.result_max_entries must be positive, got %d", c.Cache.ResultMaxEntries)
	}
	if c.Cache.CatalogTTL <= 0 {
		return fmt.Errorf("cache.catalog_ttl must be positive, got %v", c.Cache.CatalogTTL)
	}
	switch c.Cache.Backend {
	case "badger":
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required for the badger cache backend")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("CATALOG_CACHE_BACKEND must be badger, redis, memory or none, got %q", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateProfile() error {
	switch c.Profile.Backend {
	case "postgres":
		if c.Profile.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres profile backend")
		}
	case "memory":
	default:
		return fmt.Errorf("PROFILE_BACKEND must be postgres or memory, got %q", c.Profile.Backend)
	}
	return nil
}

func (c *Config) validateAI() error {
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be in [0, 2], got %f", c.AI.Temperature)
	}
	if c.AI.MaxOutputTokens < 1 {
		return fmt.Errorf("ai.max_output_tokens must be positive, got %d", c.AI.MaxOutputTokens)
	}
	if c.AI.RecommendationCount < 1 {
		return fmt.Errorf("ai.recommendation_count must be positive, got %d", c.AI.RecommendationCount)
	}
	if c.AI.MaxAttempts < 1 {
		return fmt.Errorf("ai.max_attempts must be positive, got %d", c.AI.MaxAttempts)
	}
	if c.AI.NameMaxRunes < 1 {
		return fmt.Errorf("ai.name_max_runes must be positive, got %d", c.AI.NameMaxRunes)
	}
	if budget := c.AI.ChainBudget(); budget > 0 && c.Server.RequestTimeout <= budget {
		return fmt.Errorf("server.request_timeout (%v) must exceed the ai retry chain (%v = %d attempts x %v plus backoff)",
			c.Server.RequestTimeout, budget, c.AI.MaxAttempts, c.AI.Timeout)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.ShortlistSize < 1 {
		return fmt.Errorf("recommend.shortlist_size must be positive, got %d", c.Recommend.ShortlistSize)
	}
	if c.Recommend.MaxTargets < 1 {
		return fmt.Errorf("recommend.max_targets must be positive, got %d", c.Recommend.MaxTargets)
	}
	if len(c.Recommend.DefaultCategories) == 0 {
		return fmt.Errorf("recommend.default_categories must not be empty")
	}
	return nil
}
