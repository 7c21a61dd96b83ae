// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/tomtom215/shortlist/internal/config"
	"github.com/tomtom215/shortlist/internal/resilience"
)

// relaxedSafety turns off blocking for every adjustable harm category.
// Food and household product text trips the default thresholds.
var relaxedSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
}

// GeminiGenerator is a Generator backed by the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	breaker *resilience.Breaker[*Generation]
}

// NewGeminiGenerator creates a client for cfg.Model with JSON output,
// cfg.Temperature and cfg.MaxOutputTokens.
func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"
	model.SafetySettings = relaxedSafety

	return &GeminiGenerator{
		client: client,
		model:  model,
		breaker: resilience.NewBreaker[*Generation](resilience.BreakerConfig{
			Name:         "gemini-api",
			IsSuccessful: countsAgainstBreaker,
		}),
	}, nil
}

// Generate sends prompt as a single-turn request.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	gen, err := g.breaker.Execute(func() (*Generation, error) {
		return g.generate(ctx, prompt)
	})
	if resilience.IsRejected(err) {
		return nil, &StatusError{Code: http.StatusServiceUnavailable, Err: err}
	}
	return gen, err
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (*Generation, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return &Generation{Blocked: true, BlockReason: blocked.Error()}, nil
		}
		return nil, classifyError(err)
	}
	return toGeneration(resp), nil
}

// Close releases the underlying connection.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func toGeneration(resp *genai.GenerateContentResponse) *Generation {
	gen := &Generation{}
	if resp == nil {
		return gen
	}
	if u := resp.UsageMetadata; u != nil {
		gen.PromptTokens = int(u.PromptTokenCount)
		gen.OutputTokens = int(u.CandidatesTokenCount)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		gen.Blocked = true
		gen.BlockReason = "prompt blocked: " + fb.BlockReason.String()
		return gen
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return gen
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		gen.Blocked = true
		gen.BlockReason = "response blocked: " + cand.FinishReason.String()
		return gen
	}
	if cand.Content == nil {
		return gen
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	gen.Text = b.String()
	return gen
}

// classifyError wraps provider errors that carry a status in *StatusError.
func classifyError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return &StatusError{Code: code, Err: err}
		}
		if st := apiErr.GRPCStatus(); st != nil {
			if code := grpcToHTTP(st.Code()); code > 0 {
				return &StatusError{Code: code, Err: err}
			}
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &StatusError{Code: gErr.Code, Err: err}
	}
	return err
}

func grpcToHTTP(c codes.Code) int {
	switch c {
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Internal, codes.Unknown:
		return http.StatusInternalServerError
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return 0
	}
}

// countsAgainstBreaker: cancellation and request errors say nothing about
// provider health.
func countsAgainstBreaker(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && !statusErr.retryable() {
		return true
	}
	return false
}

var _ Generator = (*GeminiGenerator)(nil)
