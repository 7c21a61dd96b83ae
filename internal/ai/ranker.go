// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
ranker.go - Generative Re-ranking

Ranker turns a shortlist into the final ordered recommendations. One Rank
call is one generation chain:

  - Attempts: up to MaxAttempts calls; attempt n+1 waits n*RetryBaseDelay
  - Retried: transport errors, empty responses, 429 and 5xx
  - Not retried: safety blocks, other 4xx, unparseable output
  - Context: the backoff wait and every call honor ctx

Every failure leaves as a *recommend.Error so the HTTP layer can choose a
status and the retryable flag.
*/

//nolint:staticcheck // File documentation, not package doc
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/metrics"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

// Generation is the outcome of one successful model call.
type Generation struct {
	Text         string
	PromptTokens int
	OutputTokens int
	Blocked      bool   // refused by the provider's safety layer
	BlockReason  string // provider detail when Blocked
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// StatusError carries the provider's HTTP-equivalent status code.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation failed with status %d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

var errEmptyResponse = errors.New("model returned an empty response")

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Ranker.
type Option func(*Ranker)

// WithSleep replaces the backoff wait. Tests use it to skip real delays.
func WithSleep(fn SleepFunc) Option {
	return func(r *Ranker) {
		r.sleep = fn
	}
}

// Ranker implements recommend.Ranker on top of a Generator.
type Ranker struct {
	gen          Generator
	count        int
	nameMaxRunes int
	maxAttempts  int
	baseDelay    time.Duration
	callTimeout  time.Duration
	sleep        SleepFunc
	logger       zerolog.Logger
}

// NewRanker creates a Ranker. A nil gen makes every Rank call fail with a
// configuration error.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(gen Generator, cfg *config.AIConfig, logger zerolog.Logger, opts ...Option) *Ranker {
	r := &Ranker{
		gen:          gen,
		count:        cfg.RecommendationCount,
		nameMaxRunes: cfg.NameMaxRunes,
		maxAttempts:  max(cfg.MaxAttempts, 1),
		baseDelay:    cfg.RetryBaseDelay,
		callTimeout:  cfg.Timeout,
		sleep:        sleepContext,
		logger:       logger.With().Str("component", "ai_ranker").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configured reports whether a generator is wired in.
func (r *Ranker) Configured() bool {
	return r.gen != nil
}

// Rank asks the model to order shortlist and joins its answer back to it.
func (r *Ranker) Rank(ctx context.Context, uc recommend.UserContext, shortlist []models.Product) ([]models.Recommendation, error) {
	if r.gen == nil {
		return nil, recommend.NewError(recommend.KindConfig, "generative API key is missing", nil)
	}

	prompt := BuildPrompt(uc, shortlist, r.count, r.nameMaxRunes)

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * r.baseDelay
			r.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("retrying generation")
			if err := r.sleep(ctx, delay); err != nil {
				return nil, recommend.NewError(recommend.KindTimeout, "deadline passed while waiting to retry generation", err)
			}
		}

		gen, err := r.generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				metrics.AIAttempts.WithLabelValues("error").Inc()
				return nil, recommend.NewError(recommend.KindTimeout, "deadline passed during generation", err)
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.retryable() {
				metrics.AIAttempts.WithLabelValues("error").Inc()
				return nil, recommend.NewError(recommend.KindAI, statusErr.Error(), err)
			}
			metrics.AIAttempts.WithLabelValues(attemptOutcome(err)).Inc()
			lastErr = err
			continue
		}

		metrics.RecordAIUsage(gen.PromptTokens, gen.OutputTokens)
		r.logger.Debug().
			Int("attempt", attempt).
			Int("prompt_tokens", gen.PromptTokens).
			Int("output_tokens", gen.OutputTokens).
			Msg("generation complete")

		if gen.Blocked {
			metrics.AIAttempts.WithLabelValues("blocked").Inc()
			return nil, recommend.NewError(recommend.KindAIBlocked, gen.BlockReason, nil)
		}
		if strings.TrimSpace(gen.Text) == "" {
			metrics.AIAttempts.WithLabelValues("empty").Inc()
			lastErr = errEmptyResponse
			continue
		}
		metrics.AIAttempts.WithLabelValues("success").Inc()

		ranked, err := ParseResponse(gen.Text)
		if err != nil {
			r.logger.Warn().Err(err).Int("response_bytes", len(gen.Text)).Msg("unparseable model response")
			return nil, recommend.NewError(recommend.KindParse, err.Error(), err)
		}
		recs := Join(ranked, shortlist, r.count)
		if dropped := len(ranked) - len(recs); dropped > 0 {
			r.logger.Debug().Int("dropped", dropped).Msg("model entries not matched to the shortlist")
		}
		return recs, nil
	}

	return nil, exhausted(lastErr, r.maxAttempts)
}

func (r *Ranker) generate(ctx context.Context, prompt string) (*Generation, error) {
	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}
	start := time.Now()
	gen, err := r.gen.Generate(ctx, prompt)
	metrics.AIRequestDuration.Observe(time.Since(start).Seconds())
	if err == nil && gen == nil {
		err = errEmptyResponse
	}
	return gen, err
}

// exhausted classifies the last error once retries are used up.
func exhausted(err error, attempts int) error {
	details := fmt.Sprintf("%d attempts: %v", attempts, err)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusTooManyRequests:
			return recommend.NewError(recommend.KindRateLimited, details, err)
		case http.StatusServiceUnavailable:
			return recommend.NewError(recommend.KindOverloaded, details, err)
		}
	}
	return recommend.NewError(recommend.KindAI, details, err)
}

func attemptOutcome(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusTooManyRequests:
			return "rate_limited"
		case http.StatusServiceUnavailable:
			return "overloaded"
		}
	}
	return "error"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ recommend.Ranker = (*Ranker)(nil)
