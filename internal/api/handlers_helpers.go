// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/logging"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends v as a JSON response. Responses are never cached by
// intermediaries; recommendations are per-user.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Err(err).Msg("Failed to write JSON response")
	}
}

// respondError maps err to a status code and writes the error body. Errors
// that are not *recommend.Error are reported as internal.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var rerr *recommend.Error
	if !errors.As(err, &rerr) {
		rerr = recommend.NewError(recommend.KindInternal, "", err)
	}
	status := statusForKind(rerr.Kind)

	logger := logging.CtxWith(r.Context()).
		Str("kind", rerr.Kind.String()).
		Int("status", status).
		Logger()
	if status >= http.StatusInternalServerError {
		logger.Error().Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	} else {
		logger.Debug().Str("details", sanitizeLogValue(rerr.Details)).Msg("request rejected")
	}

	respondErrorMessage(w, status, rerr.Message, rerr.Details, rerr.Retryable)
}

func respondErrorMessage(w http.ResponseWriter, status int, message, details string, retryable bool) {
	respondJSON(w, status, &models.ErrorResponse{
		Error:     message,
		Details:   details,
		Retryable: retryable,
	})
}

// statusForKind is the HTTP status for each pipeline error kind.
func statusForKind(k recommend.Kind) int {
	switch k {
	case recommend.KindInput:
		return http.StatusBadRequest
	case recommend.KindNotFound, recommend.KindNoUserData,
		recommend.KindNoCandidates, recommend.KindNoQualifying:
		return http.StatusNotFound
	case recommend.KindRateLimited:
		return http.StatusTooManyRequests
	case recommend.KindOverloaded:
		return http.StatusServiceUnavailable
	case recommend.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
