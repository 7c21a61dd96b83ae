// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
client.go - Catalog Item Search Client

This file provides the HTTP client for the external item search API. The
wire format follows the Rakuten Ichiba item search endpoint: a GET with the
application id, keyword, hits, sort and optional maxPrice as query
parameters, answered by {"Items":[{"Item":{...}}]}.

Resilience Mechanisms:
  - Pacing: token bucket limiter shared by every request (golang.org/x/time/rate)
  - Retries: HTTP 429 and 5xx are retried with exponential backoff, honoring Retry-After
  - Circuit Breaker: opens when most recent searches fail, so a down catalog costs
    one fast rejection per target instead of a full timeout
  - Context: every wait (limiter, backoff) is cancellable
*/

//nolint:staticcheck // File documentation, not package doc
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/resilience"
)

// ErrNotConfigured is returned when no application id is configured.
var ErrNotConfigured = errors.New("catalog: application id not configured")

const (
	// maxErrorBodySize limits how much of an error body is kept for diagnostics.
	maxErrorBodySize = 64 * 1024

	// maxResponseBodySize caps a successful search response.
	maxResponseBodySize = 8 << 20

	// maxRetryAfter bounds a server-requested wait.
	maxRetryAfter = 30 * time.Second
)

// APIError is a non-2xx response from the catalog.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog search failed with status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the status is worth another attempt.
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client searches the external catalog. It is safe for concurrent use.
type Client struct {
	baseURL        string
	applicationID  string
	affiliateID    string
	sort           string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *resilience.Breaker[[]models.Product]
	maxRetries     int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewClient creates a catalog client from cfg.
//
// A missing application id does not fail construction; Ready and Search
// report ErrNotConfigured instead, so the service can start and surface the
// problem per request.
func NewClient(cfg *config.CatalogConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		applicationID: cfg.ApplicationID,
		affiliateID:   cfg.AffiliateID,
		sort:          cfg.Sort,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: resilience.NewBreaker[[]models.Product](resilience.BreakerConfig{
			Name:         "catalog-api",
			IsSuccessful: countsAgainstBreaker,
		}),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		logger:         logger.With().Str("component", "catalog").Logger(),
	}
}

// Ready returns ErrNotConfigured when the client cannot issue searches.
func (c *Client) Ready() error {
	if c.applicationID == "" {
		return ErrNotConfigured
	}
	return nil
}

// Search runs one catalog query and returns the items in catalog order.
func (c *Client) Search(ctx context.Context, q models.SearchQuery) ([]models.Product, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := c.breaker.Execute(func() ([]models.Product, error) {
		return c.searchWithRetry(ctx, q)
	})
	metrics.RecordCatalogRequest(outcome(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Keyword, err)
	}
	return items, nil
}

func (c *Client) searchWithRetry(ctx context.Context, q models.SearchQuery) ([]models.Product, error) {
	reqURL := c.buildURL(q)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		items, retryAfter, err := c.doSearch(ctx, reqURL)
		if err == nil {
			return items, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.retryable() || attempt == c.maxRetries {
			break
		}

		// Exponential backoff: base, 2*base, 4*base...
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}

		c.logger.Debug().
			Str("keyword", q.Keyword).
			Int("status", apiErr.StatusCode).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("catalog search retry")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// doSearch performs a single HTTP round trip. On a 429 it also returns the
// server-requested delay.
func (c *Client) doSearch(ctx context.Context, reqURL string) ([]models.Product, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), apiErr
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	return payload.products(), 0, nil
}

func (c *Client) buildURL(q models.SearchQuery) string {
	params := url.Values{}
	params.Set("applicationId", c.applicationID)
	if c.affiliateID != "" {
		params.Set("affiliateId", c.affiliateID)
	}
	params.Set("format", "json")
	params.Set("keyword", q.Keyword)
	params.Set("hits", strconv.Itoa(q.Hits))
	if c.sort != "" {
		params.Set("sort", c.sort)
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", strconv.Itoa(*q.MaxPrice))
	}
	return c.baseURL + "?" + params.Encode()
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at)
	}
	if d < 0 {
		return 0
	}
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

// countsAgainstBreaker: caller cancellation and 4xx other than 429 say
// nothing about catalog health.
func countsAgainstBreaker(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.retryable() {
		return true
	}
	return false
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "success"
	case resilience.IsRejected(err):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "error"
	}
}
