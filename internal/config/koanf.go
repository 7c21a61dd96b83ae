// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shortlist/config.yaml",
	"/etc/shortlist/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults; file and env layers override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    180 * time.Second, // outlives RequestTimeout so the 504 is written
			RequestTimeout:  150 * time.Second, // AI chain alone is 3*30s + 2s + 4s
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601",
			Timeout:           10 * time.Second,
			MaxRetries:        2,
			RetryBaseDelay:    time.Second,
			RequestsPerSecond: 1,
			Burst:             1,
			ResultCap:         30,
			MaxPriceFloor:     1000,
			Sort:              "standard",
			FetchConcurrency:  1,
			PerTargetTimeout:  15 * time.Second,
		},
		Cache: CacheConfig{
			ResultTTL:        15 * time.Minute,
			ResultMaxEntries: 100,
			CatalogTTL:       7 * 24 * time.Hour,
			Backend:          "badger",
			BadgerPath:       "/data/shortlist/catalog-cache",
			RedisAddr:        "127.0.0.1:6379",
			PruneInterval:    6 * time.Hour,
		},
		Profile: ProfileConfig{
			Backend: "memory",
		},
		AI: AIConfig{
			Model:               "gemini-1.5-flash",
			Temperature:         0.7,
			MaxOutputTokens:     2048,
			RecommendationCount: 9,
			MaxAttempts:         3,
			RetryBaseDelay:      2 * time.Second,
			NameMaxRunes:        50,
			Timeout:             30 * time.Second,
		},
		Recommend: RecommendConfig{
			ShortlistSize:     20,
			MaxTargets:        10,
			DefaultCategories: []string{"meat", "seafood", "rice", "fruit"},
			Seed:              0,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config file (optional YAML)
//  3. Environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.default_categories",
}

// processSliceFields converts comma-separated env strings to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Catalog
	"catalog_base_url":           "catalog.base_url",
	"catalog_application_id":     "catalog.application_id",
	"rakuten_application_id":     "catalog.application_id",
	"catalog_affiliate_id":       "catalog.affiliate_id",
	"catalog_timeout":            "catalog.timeout",
	"catalog_max_retries":        "catalog.max_retries",
	"catalog_retry_base_delay":   "catalog.retry_base_delay",
	"catalog_rps":                "catalog.requests_per_second",
	"catalog_burst":              "catalog.burst",
	"catalog_result_cap":         "catalog.result_cap",
	"catalog_max_price_floor":    "catalog.max_price_floor",
	"catalog_sort":               "catalog.sort",
	"catalog_fetch_concurrency":  "catalog.fetch_concurrency",
	"catalog_per_target_timeout": "catalog.per_target_timeout",

	// Cache
	"result_cache_ttl":         "cache.result_ttl",
	"result_cache_max_entries": "cache.result_max_entries",
	"catalog_cache_ttl":        "cache.catalog_ttl",
	"catalog_cache_backend":    "cache.backend",
	"badger_path":              "cache.badger_path",
	"redis_addr":               "cache.redis_addr",
	"redis_password":           "cache.redis_password",
	"redis_db":                 "cache.redis_db",
	"cache_prune_interval":     "cache.prune_interval",

	// Profile
	"profile_backend":   "profile.backend",
	"database_url":      "profile.database_url",
	"profile_seed_file": "profile.seed_file",

	// AI
	"gemini_api_key":          "ai.api_key",
	"ai_model":                "ai.model",
	"ai_temperature":          "ai.temperature",
	"ai_max_output_tokens":    "ai.max_output_tokens",
	"ai_recommendation_count": "ai.recommendation_count",
	"ai_max_attempts":         "ai.max_attempts",
	"ai_retry_base_delay":     "ai.retry_base_delay",
	"ai_name_max_runes":       "ai.name_max_runes",
	"ai_timeout":              "ai.timeout",

	// Recommend
	"recommend_shortlist_size":     "recommend.shortlist_size",
	"recommend_max_targets":        "recommend.max_targets",
	"recommend_default_categories": "recommend.default_categories",
	"recommend_seed":               "recommend.seed",
}

// envTransformFunc maps an environment variable name to a config path.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GEMINI_API_KEY -> ai.api_key
//   - RAKUTEN_APPLICATION_ID -> catalog.application_id
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
