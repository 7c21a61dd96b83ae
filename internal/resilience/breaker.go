// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package resilience wraps outbound calls (catalog search, generation) in
// circuit breakers that report to Prometheus.
package resilience

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shortlist/internal/logging"
	"github.com/tomtom215/shortlist/internal/metrics"
)

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Name labels logs and metrics, e.g. "catalog-api".
	Name string

	// MaxRequests allowed through while half-open.
	// Default: 3
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	// Default: 1m
	Interval time.Duration

	// Timeout spent open before probing again.
	// Default: 2m
	Timeout time.Duration

	// MinRequests before the failure ratio is considered.
	// Default: 10
	MinRequests uint32

	// FailureRatio at or above which the breaker opens.
	// Default: 0.6
	FailureRatio float64

	// IsSuccessful decides whether err counts against the breaker.
	// nil counts every non-nil error as a failure.
	IsSuccessful func(err error) bool
}

// Breaker is a typed circuit breaker. It is safe for concurrent use.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// NewBreaker creates a breaker with cfg, filling zero values with defaults.
func NewBreaker[T any](cfg BreakerConfig) *Breaker[T] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 3
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 10
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = 0.6
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	logger := logging.WithComponent("circuit-breaker").With().Str("breaker", cfg.Name).Logger()

	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio).Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	}

	return &Breaker[T]{
		cb:   gobreaker.NewCircuitBreaker[T](settings),
		name: cfg.Name,
	}
}

// Execute runs fn through the breaker. When the circuit is open fn is not
// called and the returned error satisfies IsRejected.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case IsRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return result, err
}

// State reports the current state as "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return stateToString(b.cb.State())
}

// IsRejected reports whether err came from an open or saturated breaker.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
