// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestResultCacheGetSet(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewResultCache[string](15*time.Minute, 100, WithClock(clock.Now))

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for missing key")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get(k) = %q, %v; want v, true", got, ok)
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}
}

func TestResultCacheExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewResultCache[int](15*time.Minute, 100, WithClock(clock.Now))
	c.Set("k", 1)

	clock.Advance(15*time.Minute - time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should still be live just before the TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should be expired at the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on Get, Len() = %d", c.Len())
	}
}

func TestResultCacheSweepsExpiredPastThreshold(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewResultCache[int](time.Minute, 3, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("old-%d", i), i)
	}
	clock.Advance(2 * time.Minute)

	c.Set("fresh", 99)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d after sweep, want 1", c.Len())
	}
	if v, ok := c.Get("fresh"); !ok || v != 99 {
		t.Errorf("fresh entry lost in sweep: %v, %v", v, ok)
	}
	if ev := c.GetStats().Evictions; ev != 3 {
		t.Errorf("Evictions = %d, want 3", ev)
	}
}

func TestResultCacheKeepsLiveEntriesPastThreshold(t *testing.T) {
	t.Parallel()

	c := NewResultCache[int](time.Hour, 2)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k-%d", i), i)
	}
	if c.Len() != 5 {
		t.Errorf("live entries must not be evicted, Len() = %d", c.Len())
	}
}

func TestResultCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewResultCache[int](time.Minute, 10)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", i%4)
			c.Set(key, i)
			c.Get(key)
			_ = c.HitRate()
		}(i)
	}
	wg.Wait()
}
