// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

//go:build integration

package testinfra_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/cache"
	"github.com/tomtom215/shortlist/internal/catalog"
	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/profile"
	"github.com/tomtom215/shortlist/internal/testinfra"
)

// steppingClock is a settable clock shared between the test and the cache.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRedisStore(t *testing.T) *cache.RedisStore {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), container) })

	store, err := cache.NewRedisStore(ctx, cache.RedisOptions{Addr: container.Addr})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "catalog:missing"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	for _, key := range []string{"catalog:a", "catalog:b", "other:c"} {
		if err := store.Put(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Put(%q) error = %v", key, err)
		}
	}

	seen := map[string]string{}
	err := store.Scan(ctx, "catalog:", func(key string, value []byte) error {
		seen[key] = string(value)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(seen) != 2 || seen["catalog:a"] != "catalog:a" || seen["catalog:b"] != "catalog:b" {
		t.Errorf("Scan() saw %v", seen)
	}

	if err := store.Delete(ctx, "catalog:a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "catalog:a"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestRedisCatalogCacheExpiryAndPrune(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	clock := &steppingClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	c := cache.NewCatalogCache(store, 7*24*time.Hour, zerolog.Nop(), cache.WithClock(clock.Now))

	items := []models.Product{{ItemID: "shop:1", Name: "Rice 5kg", Price: 2800}}
	key := cache.CatalogKey{Keyword: "rice", Sort: cache.DefaultSort, PageSize: cache.DefaultPageSize}
	c.Put(ctx, key, items)

	if got, ok := c.Get(ctx, key); !ok || len(got) != 1 || got[0].ItemID != "shop:1" {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	clock.Advance(8 * 24 * time.Hour)
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected stale entry to miss")
	}
	if _, err := store.Get(ctx, key.String()); err != nil {
		t.Fatalf("stale entry should remain until pruned: %v", err)
	}

	removed, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, err := store.Get(ctx, key.String()); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("entry still present after prune: %v", err)
	}
}

func TestPostgresProfileStore(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("NewPostgresContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	db, err := profile.OpenPostgres(ctx, container.DSN)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, categories, custom_request, allergies, family_structure, calculated_limit)
		VALUES ('u-1', ARRAY['meat','rice'], '子供向け', ARRAY['えび'], '{"adults":2,"children":2}', 45000),
		       ('u-2', NULL, NULL, NULL, '{}', NULL)`)
	if err != nil {
		t.Fatalf("seed profiles: %v", err)
	}

	store := profile.NewPostgresStore(db)

	p, err := store.Get(ctx, "u-1")
	if err != nil {
		t.Fatalf("Get(u-1) error = %v", err)
	}
	if p.Preferences == nil || len(p.Preferences.Categories) != 2 || p.Preferences.CustomRequest != "子供向け" {
		t.Errorf("Preferences = %+v", p.Preferences)
	}
	if p.FamilyStructure.Children != 2 {
		t.Errorf("FamilyStructure = %+v", p.FamilyStructure)
	}
	if p.CalculatedLimit == nil || *p.CalculatedLimit != 45000 {
		t.Errorf("CalculatedLimit = %v", p.CalculatedLimit)
	}

	p, err = store.Get(ctx, "u-2")
	if err != nil {
		t.Fatalf("Get(u-2) error = %v", err)
	}
	if p.Preferences != nil || p.CalculatedLimit != nil {
		t.Errorf("expected empty profile, got %+v", p)
	}

	if _, err := store.Get(ctx, "nobody"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Get(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestCachedCatalogSearchOverRedis(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	server := testinfra.NewMockCatalogServer(t)
	server.SetItems("和牛",
		models.Product{ItemID: "shop:wagyu", Name: "和牛 切り落とし", Price: 3980, ReviewCount: 120, ReviewAverage: 4.6},
	)

	client := catalog.NewClient(&config.CatalogConfig{
		BaseURL:           server.URL(),
		ApplicationID:     "test-app",
		Timeout:           5 * time.Second,
		RetryBaseDelay:    10 * time.Millisecond,
		RequestsPerSecond: 100,
		Burst:             10,
	}, zerolog.Nop())
	searcher := catalog.NewCachedSearcher(client,
		cache.NewCatalogCache(store, 7*24*time.Hour, zerolog.Nop()), cache.DefaultSort)

	budget := 20000
	q := models.SearchQuery{Keyword: "和牛", MaxPrice: &budget, Hits: 30}

	for i := 0; i < 2; i++ {
		items, err := searcher.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search() #%d error = %v", i+1, err)
		}
		if len(items) != 1 || items[0].ItemID != "shop:wagyu" || items[0].Price != 3980 {
			t.Fatalf("Search() #%d = %+v", i+1, items)
		}
	}

	queries := server.Queries()
	if len(queries) != 1 {
		t.Fatalf("catalog received %d queries, want 1 (second served from redis)", len(queries))
	}
	if queries[0].MaxPrice != "20000" || queries[0].Hits != 30 || queries[0].ApplicationID != "test-app" {
		t.Errorf("query = %+v", queries[0])
	}
}
