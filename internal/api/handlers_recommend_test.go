// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

type fakeEngine struct {
	mu       sync.Mutex
	result   *recommend.Result
	err      error
	requests []recommend.Request
	deadline bool
}

func (f *fakeEngine) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(t *testing.T, engine Recommender, sec *config.SecurityConfig) http.Handler {
	t.Helper()
	if sec == nil {
		sec = &config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitDisabled: true}
	}
	h := NewHandler(HandlerConfig{
		Engine:         engine,
		RequestTimeout: 5 * time.Second,
		CacheBackend:   "memory",
		CatalogReady:   func() error { return nil },
		AIConfigured:   true,
	})
	return NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec))).SetupChi()
}

func post(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRecommendationsSuccess(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{result: &recommend.Result{
		Recommendations: []models.Recommendation{{
			ItemCode: "shop:1",
			Reason:   "fits the budget",
			Score:    92,
			Product:  models.Product{ItemID: "shop:1", Name: "beef", Price: 20000},
		}},
		Cached:    true,
		RequestID: "req-1",
	}}
	srv := newTestServer(t, engine, nil)

	rec := post(t, srv, `{"userId":"u-1","excludeItemCodes":["x","y"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.RecommendationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || !body.Cached || body.RequestID != "req-1" {
		t.Errorf("body = %+v", body)
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].Product.Price != 20000 {
		t.Errorf("recommendations = %+v", body.Recommendations)
	}

	got := engine.requests[0]
	if got.UserID != "u-1" || len(got.ExcludeItemCodes) != 2 {
		t.Errorf("engine request = %+v", got)
	}
	if got.RequestID == "" || got.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id %q not propagated (header %q)", got.RequestID, rec.Header().Get("X-Request-ID"))
	}
	if !engine.deadline {
		t.Error("engine context has no deadline")
	}
}

func TestRecommendationsEmptyListIsArray(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeEngine{result: &recommend.Result{}}, nil)
	rec := post(t, srv, `{"userId":"u-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"recommendations":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRecommendationsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"userId":`},
		{"missing user id", `{"excludeItemCodes":[]}`},
		{"blank user id", `{"userId":"   "}`},
		{"wrong type", `{"userId":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &fakeEngine{result: &recommend.Result{}}
			rec := post(t, newTestServer(t, engine, nil), tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Error == "" || body.Retryable {
				t.Errorf("body = %+v", body)
			}
			if len(engine.requests) != 0 {
				t.Error("engine called for invalid input")
			}
		})
	}
}

func TestRecommendationsErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      recommend.Kind
		status    int
		retryable bool
	}{
		{recommend.KindInput, http.StatusBadRequest, false},
		{recommend.KindNotFound, http.StatusNotFound, false},
		{recommend.KindNoUserData, http.StatusNotFound, false},
		{recommend.KindNoCandidates, http.StatusNotFound, false},
		{recommend.KindNoQualifying, http.StatusNotFound, false},
		{recommend.KindConfig, http.StatusInternalServerError, false},
		{recommend.KindAI, http.StatusInternalServerError, false},
		{recommend.KindAIBlocked, http.StatusInternalServerError, false},
		{recommend.KindParse, http.StatusInternalServerError, false},
		{recommend.KindInternal, http.StatusInternalServerError, false},
		{recommend.KindRateLimited, http.StatusTooManyRequests, true},
		{recommend.KindOverloaded, http.StatusServiceUnavailable, true},
		{recommend.KindTimeout, http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			engine := &fakeEngine{err: recommend.NewError(tt.kind, "detail text", errors.New("cause"))}
			rec := post(t, newTestServer(t, engine, nil), `{"userId":"u-1"}`)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decodeError(t, rec)
			if body.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", body.Retryable, tt.retryable)
			}
			if body.Error == "" || body.Details != "detail text" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestRecommendationsUntypedErrorIsInternal(t *testing.T) {
	t.Parallel()

	rec := post(t, newTestServer(t, &fakeEngine{err: errors.New("boom")}, nil), `{"userId":"u-1"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecommendationsRateLimit(t *testing.T) {
	t.Parallel()

	sec := &config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitReqs: 1, RateLimitWindow: time.Minute}
	srv := newTestServer(t, &fakeEngine{result: &recommend.Result{}}, sec)

	if rec := post(t, srv, `{"userId":"u-1"}`); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec := post(t, srv, `{"userId":"u-1"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if body := decodeError(t, rec); !body.Retryable {
		t.Error("rate limited response must be retryable")
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeEngine{result: &recommend.Result{}}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recommendations", http.NoBody))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /recommendations = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
