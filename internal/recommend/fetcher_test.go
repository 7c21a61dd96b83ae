// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/models"
)

// mapSearcher answers by keyword and records the queries it saw.
type mapSearcher struct {
	mu      sync.Mutex
	pages   map[string][]models.Product
	fail    map[string]error
	queries []models.SearchQuery
}

func (s *mapSearcher) Search(_ context.Context, q models.SearchQuery) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if err := s.fail[q.Keyword]; err != nil {
		return nil, err
	}
	return s.pages[q.Keyword], nil
}

func (s *mapSearcher) Ready() error { return nil }

func newTestFetcher(s CatalogSearcher, concurrency int) *Fetcher {
	cfg := DefaultConfig()
	cfg.FetchConcurrency = concurrency
	return NewFetcher(s, cfg, zerolog.Nop())
}

func TestFetcherMergesDedupesAndExcludes(t *testing.T) {
	t.Parallel()

	for _, concurrency := range []int{1, 4} {
		s := &mapSearcher{
			pages: map[string][]models.Product{
				"beef": {{ItemID: "a", Name: "beef 1"}, {ItemID: "b", Name: "beef 2"}},
				"pork": {{ItemID: "b", Name: "beef 2"}, {ItemID: "c", Name: "pork 1"}, {ItemID: "x", Name: "pork 2"}},
			},
			fail: map[string]error{"rice": errors.New("upstream 500")},
		}
		targets := []SearchTarget{
			{Type: TargetCategory, ID: "meat", Keyword: "beef"},
			{Type: TargetCategory, ID: "rice", Keyword: "rice"},
			{Type: TargetCategory, ID: "meat", Keyword: "pork"},
		}

		res := newTestFetcher(s, concurrency).Fetch(context.Background(), targets, nil, map[string]struct{}{"x": {}})

		if res.Failed != 1 {
			t.Errorf("concurrency %d: Failed = %d, want 1", concurrency, res.Failed)
		}
		var ids []string
		for _, it := range res.Items {
			ids = append(ids, it.ItemID+"/"+it.SourceKeyword)
		}
		want := []string{"a/beef", "b/beef", "c/pork"}
		if len(ids) != len(want) {
			t.Fatalf("concurrency %d: items = %v, want %v", concurrency, ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("concurrency %d: items = %v, want %v", concurrency, ids, want)
				break
			}
		}
	}
}

func TestFetcherMaxPriceFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget *int
		want   *int
	}{
		{"no budget", nil, nil},
		{"below floor", intPtr(999), nil},
		{"at floor", intPtr(1000), intPtr(1000)},
		{"above floor", intPtr(60000), intPtr(60000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &mapSearcher{}
			newTestFetcher(s, 1).Fetch(context.Background(), []SearchTarget{{Keyword: "rice"}}, tt.budget, nil)

			if len(s.queries) != 1 {
				t.Fatalf("queries = %d, want 1", len(s.queries))
			}
			q := s.queries[0]
			if q.Hits != 30 {
				t.Errorf("Hits = %d, want 30", q.Hits)
			}
			switch {
			case tt.want == nil && q.MaxPrice != nil:
				t.Errorf("MaxPrice = %d, want absent", *q.MaxPrice)
			case tt.want != nil && (q.MaxPrice == nil || *q.MaxPrice != *tt.want):
				t.Errorf("MaxPrice = %v, want %d", q.MaxPrice, *tt.want)
			}
		})
	}
}

func TestFetcherAllFail(t *testing.T) {
	t.Parallel()

	s := &mapSearcher{fail: map[string]error{"a": errors.New("x"), "b": errors.New("y")}}
	res := newTestFetcher(s, 1).Fetch(context.Background(), []SearchTarget{{Keyword: "a"}, {Keyword: "b"}}, nil, nil)
	if len(res.Items) != 0 || res.Failed != 2 {
		t.Errorf("result = %+v, want no items and 2 failures", res)
	}
}
