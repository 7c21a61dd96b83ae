// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package catalog

import (
	"context"

	"github.com/tomtom215/shortlist/internal/cache"
	"github.com/tomtom215/shortlist/internal/models"
)

// Searcher runs a catalog query.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.Product, error)
	Ready() error
}

// CachedSearcher answers queries from the catalog cache when it can.
type CachedSearcher struct {
	next  Searcher
	cache *cache.CatalogCache
	sort  string
}

// NewCachedSearcher wraps next. sort is part of the cache key and must match
// the sort next sends.
func NewCachedSearcher(next Searcher, c *cache.CatalogCache, sort string) *CachedSearcher {
	return &CachedSearcher{next: next, cache: c, sort: sort}
}

// Ready reports whether the underlying searcher is configured.
func (s *CachedSearcher) Ready() error {
	return s.next.Ready()
}

// Search returns cached items for q, or fetches and caches them. Failed
// fetches are not cached.
func (s *CachedSearcher) Search(ctx context.Context, q models.SearchQuery) ([]models.Product, error) {
	key := cache.CatalogKey{
		Keyword:  q.Keyword,
		MaxPrice: q.MaxPrice,
		Sort:     s.sort,
		PageSize: q.Hits,
	}

	if items, ok := s.cache.Get(ctx, key); ok {
		return items, nil
	}

	items, err := s.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, key, items)
	return items, nil
}

var (
	_ Searcher = (*Client)(nil)
	_ Searcher = (*CachedSearcher)(nil)
)
