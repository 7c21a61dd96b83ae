// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/shortlist/internal/models"
)

// Health handles GET /health. The process is up if it can answer; missing
// credentials are reported but do not fail the check.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	catalogConfigured := h.catalogReady != nil && h.catalogReady() == nil

	status := "healthy"
	if !catalogConfigured || !h.aiConfigured {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:            status,
		CacheBackend:      h.cacheBackend,
		CatalogConfigured: catalogConfigured,
		AIConfigured:      h.aiConfigured,
		Uptime:            time.Since(h.startTime).Round(time.Second).String(),
	})
}
