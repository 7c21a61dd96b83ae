// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner deletes expired entries and reports how many went.
// *cache.CatalogCache satisfies it.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// defaultPruneInterval applies when the configured interval is not positive.
const defaultPruneInterval = 6 * time.Hour

// PruneService runs Pruner on a fixed interval, once at startup and then on
// every tick. A failed pass is logged and retried on the next tick.
type PruneService struct {
	pruner   Pruner
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewPruneService creates a PruneService.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPruneService(pruner Pruner, interval time.Duration, logger zerolog.Logger) *PruneService {
	if interval <= 0 {
		interval = defaultPruneInterval
	}
	return &PruneService{
		pruner:   pruner,
		interval: interval,
		timeout:  min(interval, 10*time.Minute),
		logger:   logger.With().Str("service", "cache-prune").Logger(),
	}
}

// Serve implements suture.Service.
func (s *PruneService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("catalog cache pruning started")

	s.prune(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.prune(ctx)
		}
	}
}

func (s *PruneService) prune(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	removed, err := s.pruner.Prune(pruneCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("catalog cache prune failed")
		}
		return
	}
	s.logger.Info().
		Int("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("catalog cache pruned")
}

func (s *PruneService) String() string {
	return "cache-prune"
}
