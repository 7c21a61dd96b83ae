// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
)

// FetchResult is the merged outcome of all target searches.
type FetchResult struct {
	Items  []models.Product
	Failed int
}

// Fetcher searches the catalog once per target and merges the results.
type Fetcher struct {
	searcher         CatalogSearcher
	resultCap        int
	maxPriceFloor    int
	concurrency      int
	perTargetTimeout time.Duration
	logger           zerolog.Logger
}

// NewFetcher creates a fetcher from cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFetcher(searcher CatalogSearcher, cfg *Config, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		searcher:         searcher,
		resultCap:        cfg.ResultCap,
		maxPriceFloor:    cfg.MaxPriceFloor,
		concurrency:      cfg.FetchConcurrency,
		perTargetTimeout: cfg.PerTargetTimeout,
		logger:           logger,
	}
}

// Fetch searches every target and returns the merged candidates.
//
// A failing target is logged and skipped. Items are merged in target order,
// keeping the first occurrence of each item id, and excluded ids are removed
// last. SourceKeyword is set to the keyword that first produced the item.
func (f *Fetcher) Fetch(ctx context.Context, targets []SearchTarget, budget *int, exclude map[string]struct{}) FetchResult {
	query := models.SearchQuery{Hits: f.resultCap}
	if budget != nil && *budget >= f.maxPriceFloor {
		v := *budget
		query.MaxPrice = &v
	}

	pages := make([][]models.Product, len(targets))
	errs := make([]error, len(targets))

	if f.concurrency <= 1 {
		for i, t := range targets {
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				continue
			}
			pages[i], errs[i] = f.fetchTarget(ctx, t, query)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.concurrency)
		for i, t := range targets {
			g.Go(func() error {
				// Per-target errors are recorded, never returned, so one
				// failure does not cancel its siblings.
				pages[i], errs[i] = f.fetchTarget(gctx, t, query)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // goroutines never return errors
	}

	var result FetchResult
	seen := make(map[string]struct{})
	for i, t := range targets {
		if errs[i] != nil {
			result.Failed++
			metrics.CatalogTargetFailures.Inc()
			f.logger.Warn().
				Err(errs[i]).
				Str("keyword", t.Keyword).
				Str("target_type", string(t.Type)).
				Msg("catalog search failed, skipping target")
			continue
		}
		for _, item := range pages[i] {
			if _, dup := seen[item.ItemID]; dup {
				continue
			}
			seen[item.ItemID] = struct{}{}
			item.SourceKeyword = t.Keyword
			result.Items = append(result.Items, item)
		}
	}

	if len(exclude) > 0 {
		kept := result.Items[:0]
		for _, item := range result.Items {
			if _, excluded := exclude[item.ItemID]; !excluded {
				kept = append(kept, item)
			}
		}
		result.Items = kept
	}
	return result
}

func (f *Fetcher) fetchTarget(ctx context.Context, t SearchTarget, q models.SearchQuery) ([]models.Product, error) {
	if f.perTargetTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.perTargetTimeout)
		defer cancel()
	}
	q.Keyword = t.Keyword
	return f.searcher.Search(ctx, q)
}
