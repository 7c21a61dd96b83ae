// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package models

// RecommendationRequest is the body of POST /recommendations.
//
//	{"userId": "u-123", "excludeItemCodes": ["shop-a:10000123"]}
type RecommendationRequest struct {
	UserID           string   `json:"userId" validate:"required,notblank,max=128"`
	ExcludeItemCodes []string `json:"excludeItemCodes" validate:"max=500,dive,max=256"`
}

// Recommendation is one ranked item in the response. Product is always a
// record fetched from the catalog during the same request.
type Recommendation struct {
	ItemCode string  `json:"itemCode"`
	Reason   string  `json:"reason"`
	Score    float64 `json:"score"`
	Product  Product `json:"product"`
}

// RecommendationsResponse is the 200 body of POST /recommendations.
//
//	{
//	  "success": true,
//	  "recommendations": [{"itemCode": "...", "reason": "...", "score": 92, "product": {...}}],
//	  "cached": false,
//	  "requestId": "0b6f..."
//	}
type RecommendationsResponse struct {
	Success         bool             `json:"success"`
	Recommendations []Recommendation `json:"recommendations"`
	Cached          bool             `json:"cached"`
	RequestID       string           `json:"requestId,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
//
// Retryable is true only for upstream rate limiting and overload, where the
// caller may re-invoke the same request later.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	CacheBackend      string `json:"cacheBackend"`
	CatalogConfigured bool   `json:"catalogConfigured"`
	AIConfigured      bool   `json:"aiConfigured"`
	Uptime            string `json:"uptime"`
}
