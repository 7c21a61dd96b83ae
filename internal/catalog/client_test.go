// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/models"
)

const searchBody = `{
  "count": 2,
  "hits": 2,
  "Items": [
    {"Item": {"itemCode": "shop-a:100", "itemName": "Wagyu sirloin 500g", "itemPrice": 8000,
              "reviewCount": 120, "reviewAverage": 4.62, "itemUrl": "https://example.test/a",
              "shopName": "Shop A", "mediumImageUrls": [{"imageUrl": "https://img.test/a.jpg"}]}},
    {"Item": {"itemCode": "", "itemName": "broken entry", "itemPrice": 1}},
    {"Item": {"itemCode": "shop-b:200", "itemName": "Pork belly 1kg", "itemPrice": 3200,
              "reviewCount": 0, "reviewAverage": 0, "itemUrl": "https://example.test/b",
              "affiliateUrl": "https://aff.test/b", "shopName": "Shop B", "mediumImageUrls": []}}
  ]
}`

func testCatalogConfig(baseURL string) *config.CatalogConfig {
	return &config.CatalogConfig{
		BaseURL:           baseURL,
		ApplicationID:     "app-123",
		Timeout:           5 * time.Second,
		MaxRetries:        2,
		RetryBaseDelay:    time.Millisecond,
		RequestsPerSecond: 1000,
		Burst:             10,
		ResultCap:         30,
		Sort:              "standard",
	}
}

func TestClientSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("applicationId") != "app-123" {
			t.Errorf("applicationId = %q", q.Get("applicationId"))
		}
		if q.Get("keyword") != "wagyu beef" {
			t.Errorf("keyword = %q", q.Get("keyword"))
		}
		if q.Get("hits") != "30" {
			t.Errorf("hits = %q", q.Get("hits"))
		}
		if q.Get("maxPrice") != "20000" {
			t.Errorf("maxPrice = %q", q.Get("maxPrice"))
		}
		if q.Get("sort") != "standard" {
			t.Errorf("sort = %q", q.Get("sort"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := NewClient(testCatalogConfig(server.URL), zerolog.Nop())
	maxPrice := 20000
	items, err := client.Search(context.Background(), models.SearchQuery{Keyword: "wagyu beef", MaxPrice: &maxPrice, Hits: 30})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (entry without code dropped)", len(items))
	}
	a := items[0]
	if a.ItemID != "shop-a:100" || a.Price != 8000 || a.ReviewCount != 120 || a.ReviewAverage != 4.62 {
		t.Errorf("unexpected first item: %+v", a)
	}
	if a.ImageURL != "https://img.test/a.jpg" {
		t.Errorf("ImageURL = %q", a.ImageURL)
	}
	if items[1].URL != "https://aff.test/b" {
		t.Errorf("affiliate url should win, got %q", items[1].URL)
	}
}

func TestClientSearchOmitsAbsentMaxPrice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["maxPrice"]; ok {
			t.Error("maxPrice must not be sent when absent")
		}
		w.Write([]byte(`{"Items": []}`))
	}))
	defer server.Close()

	client := NewClient(testCatalogConfig(server.URL), zerolog.Nop())
	items, err := client.Search(context.Background(), models.SearchQuery{Keyword: "rice", Hits: 30})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := NewClient(testCatalogConfig(server.URL), zerolog.Nop())
	items, err := client.Search(context.Background(), models.SearchQuery{Keyword: "rice", Hits: 30})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items", len(items))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	client := NewClient(testCatalogConfig(server.URL), zerolog.Nop())
	_, err := client.Search(context.Background(), models.SearchQuery{Keyword: "rice", Hits: 30})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected APIError 503, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", got)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"wrong_parameter"}`))
	}))
	defer server.Close()

	client := NewClient(testCatalogConfig(server.URL), zerolog.Nop())
	if _, err := client.Search(context.Background(), models.SearchQuery{Keyword: "rice", Hits: 30}); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestClientNotConfigured(t *testing.T) {
	t.Parallel()

	cfg := testCatalogConfig("http://127.0.0.1:1")
	cfg.ApplicationID = ""
	client := NewClient(cfg, zerolog.Nop())

	if !errors.Is(client.Ready(), ErrNotConfigured) {
		t.Error("Ready() should report ErrNotConfigured")
	}
	if _, err := client.Search(context.Background(), models.SearchQuery{Keyword: "rice"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Search() error = %v, want ErrNotConfigured", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-4", 0},
		{"600", maxRetryAfter},
		{"soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseRetryAfter(tt.in); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
