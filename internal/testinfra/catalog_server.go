// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

//go:build integration

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/models"
)

// CatalogQuery is one search request received by MockCatalogServer.
type CatalogQuery struct {
	Keyword       string
	Hits          int
	MaxPrice      string
	ApplicationID string
}

// MockCatalogServer answers item searches from a keyword -> items table and
// records every query.
type MockCatalogServer struct {
	Server *httptest.Server

	mu      sync.Mutex
	pages   map[string][]models.Product
	failing map[string]int
	queries []CatalogQuery
}

// NewMockCatalogServer starts a server that is closed with the test.
func NewMockCatalogServer(t *testing.T) *MockCatalogServer {
	t.Helper()

	m := &MockCatalogServer{
		pages:   make(map[string][]models.Product),
		failing: make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

// URL is the search endpoint.
func (m *MockCatalogServer) URL() string {
	return m.Server.URL
}

// SetItems registers the items returned for keyword.
func (m *MockCatalogServer) SetItems(keyword string, items ...models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[keyword] = items
}

// FailWith makes searches for keyword answer with status code.
func (m *MockCatalogServer) FailWith(keyword string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[keyword] = code
}

// Queries returns a copy of the received queries in arrival order.
func (m *MockCatalogServer) Queries() []CatalogQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CatalogQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

func (m *MockCatalogServer) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hits, _ := strconv.Atoi(q.Get("hits")) //nolint:errcheck // zero on garbage is fine
	query := CatalogQuery{
		Keyword:       q.Get("keyword"),
		Hits:          hits,
		MaxPrice:      q.Get("maxPrice"),
		ApplicationID: q.Get("applicationId"),
	}

	m.mu.Lock()
	m.queries = append(m.queries, query)
	code := m.failing[query.Keyword]
	items := m.pages[query.Keyword]
	m.mu.Unlock()

	if code != 0 {
		http.Error(w, `{"error":"unavailable"}`, code)
		return
	}

	type item struct {
		ItemCode      string  `json:"itemCode"`
		ItemName      string  `json:"itemName"`
		ItemPrice     int     `json:"itemPrice"`
		ReviewCount   int     `json:"reviewCount"`
		ReviewAverage float64 `json:"reviewAverage"`
		ItemURL       string  `json:"itemUrl"`
		ShopName      string  `json:"shopName"`
	}
	type wrapper struct {
		Item item `json:"Item"`
	}

	out := make([]wrapper, 0, len(items))
	for _, p := range items {
		out = append(out, wrapper{Item: item{
			ItemCode:      p.ItemID,
			ItemName:      p.Name,
			ItemPrice:     p.Price,
			ReviewCount:   p.ReviewCount,
			ReviewAverage: p.ReviewAverage,
			ItemURL:       p.URL,
			ShopName:      p.ShopName,
		}})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"count": len(out),
		"hits":  len(out),
		"Items": out,
	})
}
