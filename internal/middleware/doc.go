// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package middleware provides HTTP instrumentation shared by the API router.

PrometheusMetrics records request count, duration and in-flight requests.
The endpoint label is the chi route pattern ("/recommendations"), not the
raw path, so label cardinality stays bounded:

	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Post("/recommendations", h.Recommendations)
	})
*/
package middleware
