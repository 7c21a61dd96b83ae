// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package config loads Shortlist configuration from defaults, an optional
// YAML file, and environment variables (in increasing priority).
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Cache     CacheConfig     `koanf:"cache"`
	Profile   ProfileConfig   `koanf:"profile"`
	AI        AIConfig        `koanf:"ai"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // Upper bound for one recommendation request
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown window
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CatalogConfig configures the external catalog search API.
type CatalogConfig struct {
	// BaseURL of the item search endpoint.
	BaseURL string `koanf:"base_url"`

	// ApplicationID is the API credential. Requests fail with a
	// configuration error when it is empty.
	ApplicationID string `koanf:"application_id"`

	// AffiliateID is optional and passed through when set.
	AffiliateID string `koanf:"affiliate_id"`

	// Timeout per HTTP request.
	// Default: 10s
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries on 429/5xx before giving up on a target.
	// Default: 2
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelay is doubled on each retry unless Retry-After says otherwise.
	// Default: 1s
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RequestsPerSecond paces outbound calls.
	// Default: 1
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst for the outbound limiter.
	// Default: 1
	Burst int `koanf:"burst"`

	// ResultCap is the per-target result limit (hits).
	// Default: 30
	ResultCap int `koanf:"result_cap"`

	// MaxPriceFloor: the budget ceiling is only sent as maxPrice when it is
	// at or above this value.
	// Default: 1000
	MaxPriceFloor int `koanf:"max_price_floor"`

	// Sort order passed to the catalog.
	// Default: standard
	Sort string `koanf:"sort"`

	// FetchConcurrency > 1 fans out target fetches.
	// Default: 1 (sequential)
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// PerTargetTimeout bounds one target's fetch, including cache access.
	// Default: 15s
	PerTargetTimeout time.Duration `koanf:"per_target_timeout"`
}

// CacheConfig configures both cache tiers.
type CacheConfig struct {
	// ResultTTL for the in-process recommendation result cache.
	// Default: 15m
	ResultTTL time.Duration `koanf:"result_ttl"`

	// ResultMaxEntries past which an insert sweeps expired entries.
	// Default: 100
	ResultMaxEntries int `koanf:"result_max_entries"`

	// CatalogTTL for persisted catalog pages.
	// Default: 168h (7 days)
	CatalogTTL time.Duration `koanf:"catalog_ttl"`

	// Backend for the persisted catalog cache: badger, redis, memory, none.
	// Default: badger
	Backend string `koanf:"backend"`

	// BadgerPath is the badger data directory.
	// Default: /data/shortlist/catalog-cache
	BadgerPath string `koanf:"badger_path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// PruneInterval between stale-entry sweeps of the persisted cache.
	// Zero disables pruning.
	// Default: 6h
	PruneInterval time.Duration `koanf:"prune_interval"`
}

// ProfileConfig selects the user profile store.
type ProfileConfig struct {
	// Backend: postgres or memory.
	// Default: memory
	Backend string `koanf:"backend"`

	// DatabaseURL for the postgres backend.
	DatabaseURL string `koanf:"database_url"`

	// SeedFile is a JSON array of profiles loaded by the memory backend.
	SeedFile string `koanf:"seed_file"`
}

// AIConfig configures the generative ranking step.
type AIConfig struct {
	APIKey string `koanf:"api_key"`

	// Model name.
	// Default: gemini-1.5-flash
	Model string `koanf:"model"`

	// Temperature for sampling.
	// Default: 0.7
	Temperature float32 `koanf:"temperature"`

	// MaxOutputTokens caps the response size.
	// Default: 2048
	MaxOutputTokens int32 `koanf:"max_output_tokens"`

	// RecommendationCount is how many items the model is asked to return.
	// Default: 9
	RecommendationCount int `koanf:"recommendation_count"`

	// MaxAttempts including the first call.
	// Default: 3
	MaxAttempts int `koanf:"max_attempts"`

	// RetryBaseDelay: attempt n waits n*RetryBaseDelay before retrying.
	// Default: 2s
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// NameMaxRunes truncates item names in the prompt.
	// Default: 50
	NameMaxRunes int `koanf:"name_max_runes"`

	// Timeout per generation call.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`
}

// ChainBudget is the longest the ranking step can run: every attempt hitting
// its timeout plus the linear backoff between attempts. A zero Timeout leaves
// the calls unbounded and returns 0.
func (a AIConfig) ChainBudget() time.Duration {
	if a.Timeout <= 0 || a.MaxAttempts < 1 {
		return 0
	}
	budget := time.Duration(a.MaxAttempts) * a.Timeout
	for n := 1; n < a.MaxAttempts; n++ {
		budget += time.Duration(n) * a.RetryBaseDelay
	}
	return budget
}

// RecommendConfig configures the local pipeline stages.
type RecommendConfig struct {
	// ShortlistSize is the diversity selector cap.
	// Default: 20
	ShortlistSize int `koanf:"shortlist_size"`

	// MaxTargets caps search targets per request.
	// Default: 10
	MaxTargets int `koanf:"max_targets"`

	// DefaultCategories are used when a user has none.
	DefaultCategories []string `koanf:"default_categories"`

	// Seed for target shuffling. Zero seeds from the clock.
	Seed int64 `koanf:"seed"`
}
