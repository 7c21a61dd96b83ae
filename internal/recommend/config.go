// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// ShortlistSize is the number of candidates handed to the ranker.
	ShortlistSize int `json:"shortlist_size"`

	// MaxTargets caps the keyword searches per request.
	MaxTargets int `json:"max_targets"`

	// DefaultCategories stand in for users without categories.
	DefaultCategories []string `json:"default_categories"`

	// ResultCap is the per-target catalog result limit.
	ResultCap int `json:"result_cap"`

	// MaxPriceFloor: budgets below this are not sent as a price ceiling.
	MaxPriceFloor int `json:"max_price_floor"`

	// FetchConcurrency > 1 fetches targets in parallel.
	FetchConcurrency int `json:"fetch_concurrency"`

	// PerTargetTimeout bounds one target's fetch. Zero means no extra bound.
	PerTargetTimeout time.Duration `json:"per_target_timeout"`

	// Seed for the planner's random source. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		ShortlistSize:     20,
		MaxTargets:        10,
		DefaultCategories: []string{"meat", "seafood", "rice", "fruit"},
		ResultCap:         30,
		MaxPriceFloor:     1000,
		FetchConcurrency:  1,
		PerTargetTimeout:  15 * time.Second,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.ShortlistSize < 1 {
		return fmt.Errorf("shortlist_size must be positive, got %d", c.ShortlistSize)
	}
	if c.MaxTargets < 1 {
		return fmt.Errorf("max_targets must be positive, got %d", c.MaxTargets)
	}
	if len(c.DefaultCategories) == 0 {
		return fmt.Errorf("default_categories must not be empty")
	}
	if c.ResultCap < 1 {
		return fmt.Errorf("result_cap must be positive, got %d", c.ResultCap)
	}
	if c.MaxPriceFloor < 0 {
		return fmt.Errorf("max_price_floor must be non-negative, got %d", c.MaxPriceFloor)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be positive, got %d", c.FetchConcurrency)
	}
	if c.PerTargetTimeout < 0 {
		return fmt.Errorf("per_target_timeout must be non-negative, got %v", c.PerTargetTimeout)
	}
	return nil
}
