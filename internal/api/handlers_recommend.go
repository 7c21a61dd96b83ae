// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/logging"
	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
	"github.com/tomtom215/shortlist/internal/validation"
)

// maxRequestBodySize bounds the POST /recommendations body.
const maxRequestBodySize = 1 << 20

// Recommendations handles POST /recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(&req); err != nil {
		details := "request body must be a JSON object"
		if errors.Is(err, io.EOF) {
			details = "request body is empty"
		}
		respondError(w, r, recommend.NewError(recommend.KindInput, details, err))
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, recommend.NewError(recommend.KindInput, verr.Error(), verr))
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), req.UserID)
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	result, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:           req.UserID,
		ExcludeItemCodes: req.ExcludeItemCodes,
		RequestID:        logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}

	recs := result.Recommendations
	if recs == nil {
		recs = []models.Recommendation{}
	}
	respondJSON(w, http.StatusOK, &models.RecommendationsResponse{
		Success:         true,
		Recommendations: recs,
		Cached:          result.Cached,
		RequestID:       result.RequestID,
	})
}
