// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package api provides the HTTP layer for Shortlist.

Routes:

  - POST /recommendations: run the recommendation pipeline for a user
  - GET /health: liveness plus configuration status
  - GET /metrics: Prometheus exposition

Request body for POST /recommendations:

	{"userId": "u-123", "excludeItemCodes": ["shop-a:10000123"]}

Every error response has the same shape:

	{"error": "no qualifying candidates", "details": "...", "retryable": false}

Status codes follow the pipeline error kind: 400 for bad input, 404 when
the user or any usable candidate is missing, 429 and 503 (retryable) when
the model provider throttles or is overloaded, 504 (retryable) when the
request deadline passes, and 500 otherwise.

Middleware, outermost first: request id with logging context, real IP,
panic recovery, CORS, per-IP rate limiting (go-chi/httprate) and Prometheus
instrumentation.
*/
package api
