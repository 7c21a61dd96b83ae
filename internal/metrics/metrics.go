// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package metrics holds the Prometheus instruments for Shortlist.
//
// Everything registers with the default registry through promauto and is
// served on GET /metrics by the API router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache type label values.
const (
	CacheTypeResult  = "result"
	CacheTypeCatalog = "catalog"
)

var (
	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses (including stale entries)",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Cache backend failures that were degraded to a miss or no-op",
		},
		[]string{"cache_type", "operation"}, // operation: "get", "put", "prune"
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Catalog Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Catalog search API calls by outcome",
		},
		[]string{"outcome"}, // "success", "error", "rate_limited", "rejected"
	)

	CatalogRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Catalog search API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	CatalogTargetFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_target_failures_total",
			Help: "Search targets skipped because their catalog fetch failed",
		},
	)

	// AI Metrics
	AIAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generation_attempts_total",
			Help: "Generation attempts by outcome",
		},
		[]string{"outcome"}, // "success", "error", "empty", "blocked", "rate_limited", "overloaded"
	)

	AITokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Tokens consumed by generation calls",
		},
		[]string{"kind"}, // "prompt", "output"
	)

	AIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ai_generation_duration_seconds",
			Help:    "Duration of a single generation call in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	AIParseRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_response_parse_total",
			Help: "Response parses by the repair step that produced valid JSON",
		},
		[]string{"step"}, // "direct", "fenced", "object", "score_repair", "field_collapse", "failed"
	)

	// Pipeline Metrics
	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Recommendation pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	PipelineCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Candidate counts at each pipeline stage",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200, 300},
		},
		[]string{"stage"}, // "fetched", "shortlisted", "returned"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCatalogRequest records one catalog API call.
func RecordCatalogRequest(outcome string, duration time.Duration) {
	CatalogRequests.WithLabelValues(outcome).Inc()
	CatalogRequestDuration.Observe(duration.Seconds())
}

// RecordAIUsage adds token counts reported by the model.
func RecordAIUsage(promptTokens, outputTokens int) {
	if promptTokens > 0 {
		AITokens.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if outputTokens > 0 {
		AITokens.WithLabelValues("output").Add(float64(outputTokens))
	}
}

// ObserveCandidates records the candidate count at a pipeline stage.
func ObserveCandidates(stage string, n int) {
	PipelineCandidates.WithLabelValues(stage).Observe(float64(n))
}
