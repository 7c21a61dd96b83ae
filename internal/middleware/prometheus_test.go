// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/shortlist/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Post("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // superfluous, must not relabel
	})
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	teapot := metrics.APIRequestsTotal.WithLabelValues(http.MethodPost, "/items/{id}", "418")
	plain := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/plain", "200")
	beforeTeapot := testutil.ToFloat64(teapot)
	beforePlain := testutil.ToFloat64(plain)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items/"+id, http.NoBody))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want 418", rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", http.NoBody))

	if got := testutil.ToFloat64(teapot) - beforeTeapot; got != 2 {
		t.Errorf("pattern-labelled count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(plain) - beforePlain; got != 1 {
		t.Errorf("implicit 200 count = %v, want 1", got)
	}
}

func TestRoutePatternWithoutChi(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	if got := routePattern(req); got != unmatchedRoute {
		t.Errorf("routePattern() = %q, want %q", got, unmatchedRoute)
	}
}
