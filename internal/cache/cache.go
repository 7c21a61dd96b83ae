// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/shortlist/internal/metrics"
)

// entry is a cached value with its absolute expiry.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// ResultCache is a thread-safe in-process cache with a fixed TTL.
//
// Expired entries are never returned. They are removed lazily on Get, and in
// bulk whenever an insert grows the cache past its sweep threshold. There is
// no background goroutine, so a ResultCache needs no Close.
type ResultCache[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	stats      Stats
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a ResultCache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now. Tests use it to step past the TTL.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewResultCache creates an in-process cache.
//
// Parameters:
//   - ttl: lifetime of every entry (15 minutes for recommendation results)
//   - maxEntries: size above which an insert triggers a sweep of expired entries
//
// The sweep only removes expired entries. A cache full of live entries keeps
// growing past maxEntries until they expire.
//
// Example:
//
//	results := cache.NewResultCache[[]models.Recommendation](15*time.Minute, 100)
//	results.Set(key, recs)
//	if recs, ok := results.Get(key); ok {
//	    return recs, nil
//	}
func NewResultCache[V any](ttl time.Duration, maxEntries int, opts ...Option) *ResultCache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &ResultCache[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        o.now,
		stats:      Stats{LastCleanup: o.now()},
	}
}

// Get returns the value for key if present and not expired.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		metrics.RecordCacheLookup(metrics.CacheTypeResult, false)
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Evictions++
		c.stats.TotalKeys = int64(len(c.entries))
		metrics.RecordCacheLookup(metrics.CacheTypeResult, false)
		metrics.CacheEvictions.WithLabelValues(metrics.CacheTypeResult).Inc()
		metrics.CacheSize.WithLabelValues(metrics.CacheTypeResult).Set(float64(len(c.entries)))
		return zero, false
	}

	c.stats.Hits++
	metrics.RecordCacheLookup(metrics.CacheTypeResult, true)
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *ResultCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}

	if len(c.entries) > c.maxEntries {
		c.sweepLocked(now)
	}

	c.stats.TotalKeys = int64(len(c.entries))
	metrics.CacheSize.WithLabelValues(metrics.CacheTypeResult).Set(float64(len(c.entries)))
}

// Len returns the number of stored entries, expired ones included.
func (c *ResultCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache statistics.
func (c *ResultCache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns hits / (hits + misses) as a percentage.
func (c *ResultCache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0
	}
	return float64(stats.Hits) / float64(total) * 100
}

// sweepLocked removes every expired entry. c.mu must be held.
func (c *ResultCache[V]) sweepLocked(now time.Time) {
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	c.stats.LastCleanup = now
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(metrics.CacheTypeResult).Add(float64(removed))
	}
}
