// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
)

// CatalogCache persists catalog search results across requests and restarts.
//
// Every backend failure degrades: a failed read is a miss and a failed write
// is dropped. Callers never see a cache error. A nil Store disables the cache.
type CatalogCache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewCatalogCache creates a CatalogCache over store. Pass a nil store to run
// without persistence.
func NewCatalogCache(store Store, ttl time.Duration, logger zerolog.Logger, opts ...Option) *CatalogCache {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &CatalogCache{
		store:  store,
		ttl:    ttl,
		now:    o.now,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

// Backend returns the store name, or "none".
func (c *CatalogCache) Backend() string {
	if c == nil || c.store == nil {
		return "none"
	}
	return c.store.Name()
}

// Get returns the cached items for key. Entries older than the TTL are
// reported as a miss and left in place for Prune.
func (c *CatalogCache) Get(ctx context.Context, key CatalogKey) ([]models.Product, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	k := key.String()
	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "get").Inc()
			c.logger.Warn().Err(err).Str("key", k).Msg("catalog cache read failed, treating as miss")
		}
		metrics.RecordCacheLookup(metrics.CacheTypeCatalog, false)
		return nil, false
	}

	var rec models.CatalogPage
	if err := json.Unmarshal(data, &rec); err != nil {
		metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "get").Inc()
		c.logger.Warn().Err(err).Str("key", k).Msg("catalog cache entry undecodable, treating as miss")
		metrics.RecordCacheLookup(metrics.CacheTypeCatalog, false)
		return nil, false
	}

	if c.isStale(rec) {
		metrics.RecordCacheLookup(metrics.CacheTypeCatalog, false)
		return nil, false
	}

	metrics.RecordCacheLookup(metrics.CacheTypeCatalog, true)
	return rec.Items, true
}

// Put stores items under key, overwriting any previous entry.
func (c *CatalogCache) Put(ctx context.Context, key CatalogKey, items []models.Product) {
	if c == nil || c.store == nil {
		return
	}

	k := key.String()
	data, err := json.Marshal(models.CatalogPage{Items: items, UpdatedAt: c.now().UnixMilli()})
	if err != nil {
		metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "put").Inc()
		c.logger.Warn().Err(err).Str("key", k).Msg("encode catalog cache entry")
		return
	}
	if err := c.store.Put(ctx, k, data); err != nil {
		metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "put").Inc()
		c.logger.Warn().Err(err).Str("key", k).Msg("catalog cache write failed")
	}
}

// Prune deletes stale and undecodable entries and returns how many were
// removed.
func (c *CatalogCache) Prune(ctx context.Context) (int, error) {
	if c == nil || c.store == nil {
		return 0, nil
	}

	var expired []string
	err := c.store.Scan(ctx, catalogKeyPrefix, func(key string, value []byte) error {
		var rec models.CatalogPage
		if err := json.Unmarshal(value, &rec); err != nil || c.isStale(rec) {
			expired = append(expired, key)
		}
		return nil
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "prune").Inc()
		return 0, err
	}

	removed := 0
	for _, key := range expired {
		if err := c.store.Delete(ctx, key); err != nil {
			metrics.CacheErrors.WithLabelValues(metrics.CacheTypeCatalog, "prune").Inc()
			continue
		}
		removed++
	}
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(metrics.CacheTypeCatalog).Add(float64(removed))
	}

	if gc, ok := c.store.(interface{ RunGC() error }); ok && removed > 0 {
		if err := gc.RunGC(); err != nil {
			c.logger.Debug().Err(err).Msg("value log gc")
		}
	}
	return removed, nil
}

func (c *CatalogCache) isStale(page models.CatalogPage) bool {
	return c.now().Sub(time.UnixMilli(page.UpdatedAt)) > c.ttl
}
