// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package api

import (
	"context"
	"time"

	"github.com/tomtom215/shortlist/internal/recommend"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// HandlerConfig carries the handler's collaborators.
type HandlerConfig struct {
	Engine         Recommender
	RequestTimeout time.Duration // zero leaves the request context unbounded

	// Health reporting
	CacheBackend string
	CatalogReady func() error
	AIConfigured bool
}

// Handler serves the API endpoints.
type Handler struct {
	engine         Recommender
	requestTimeout time.Duration
	cacheBackend   string
	catalogReady   func() error
	aiConfigured   bool
	startTime      time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		engine:         cfg.Engine,
		requestTimeout: cfg.RequestTimeout,
		cacheBackend:   cfg.CacheBackend,
		catalogReady:   cfg.CatalogReady,
		aiConfigured:   cfg.AIConfigured,
		startTime:      time.Now(),
	}
}
