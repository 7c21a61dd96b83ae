// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package models defines the data shapes shared across Shortlist: catalog
// products, user profiles, ranked recommendations, and the HTTP request and
// response bodies.
//
// Types here carry JSON tags for the wire and for the persisted catalog
// cache. They hold no behavior beyond small helpers; validation of request
// bodies lives in internal/validation.
package models
