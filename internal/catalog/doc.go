// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package catalog searches the external item catalog.
//
// Client talks HTTP to the search API. CachedSearcher puts the persisted
// catalog cache in front of any Searcher: a fresh cache entry answers the
// query, otherwise the searcher is called and its result stored before
// returning.
package catalog
