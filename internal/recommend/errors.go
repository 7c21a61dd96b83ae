// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. The HTTP layer maps each Kind to a
// status code.
type Kind int

const (
	// KindInternal is an unexpected failure (profile store down, etc.).
	KindInternal Kind = iota
	// KindInput is a malformed or incomplete request.
	KindInput
	// KindNotFound means the user does not exist.
	KindNotFound
	// KindNoUserData means the user exists but has no preferences.
	KindNoUserData
	// KindNoCandidates means every catalog search came back empty or failed.
	KindNoCandidates
	// KindNoQualifying means candidates existed but none scored above zero.
	KindNoQualifying
	// KindConfig means a required credential is missing.
	KindConfig
	// KindAI means the model call failed after all retries.
	KindAI
	// KindAIBlocked means the model refused on safety grounds.
	KindAIBlocked
	// KindParse means the model output could not be parsed or validated.
	KindParse
	// KindRateLimited means the model provider rate-limited us.
	KindRateLimited
	// KindOverloaded means the model provider is overloaded.
	KindOverloaded
	// KindTimeout means the request deadline passed mid-pipeline.
	KindTimeout
)

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindNoUserData:
		return "no_user_data"
	case KindNoCandidates:
		return "no_candidates"
	case KindNoQualifying:
		return "no_qualifying"
	case KindConfig:
		return "config"
	case KindAI:
		return "ai"
	case KindAIBlocked:
		return "ai_blocked"
	case KindParse:
		return "parse"
	case KindRateLimited:
		return "rate_limited"
	case KindOverloaded:
		return "overloaded"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is a classified pipeline failure. Message is safe to show to
// callers; Details carries diagnostic text; Err is the wrapped cause.
type Error struct {
	Kind      Kind
	Message   string
	Details   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error with the default message and retryability for kind.
func NewError(kind Kind, details string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Message:   defaultMessage(kind),
		Details:   details,
		Retryable: kind == KindRateLimited || kind == KindOverloaded || kind == KindTimeout,
		Err:       cause,
	}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func defaultMessage(kind Kind) string {
	switch kind {
	case KindInput:
		return "invalid request"
	case KindNotFound:
		return "user not found"
	case KindNoUserData:
		return "no user data"
	case KindNoCandidates:
		return "no candidates found"
	case KindNoQualifying:
		return "no qualifying candidates"
	case KindConfig:
		return "service not configured"
	case KindAI:
		return "AI ranking failed"
	case KindAIBlocked:
		return "AI response blocked by safety filter"
	case KindParse:
		return "could not understand AI response"
	case KindRateLimited:
		return "AI service rate limited"
	case KindOverloaded:
		return "AI service overloaded"
	case KindTimeout:
		return "request timed out"
	default:
		return "internal error"
	}
}
