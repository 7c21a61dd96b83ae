// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package reranking implements shortlist selection for the recommendation
// pipeline.
//
// Selectors run after local scoring and before the model ranks the final
// list. They decide which scored candidates the model gets to see:
//
//	Fetcher -> Scorer -> Selector -> Ranker
//	                     (balance)
//
// # Available Selectors
//
// Diversity:
//   - Splits the shortlist evenly across search targets
//   - Keeps one popular keyword from crowding out the rest
//   - Backfills unused slots by score
//   - Never selects a zero-scored (allergen) item
//
// # Usage
//
//	sel := reranking.NewDiversity()
//	shortlist := sel.Select(ctx, scored, targets, 20)
package reranking
