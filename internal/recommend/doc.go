// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package recommend implements the budget-aware recommendation pipeline.
//
// # Architecture
//
// A request flows through five stages:
//
//	Profile -> Planner -> Fetcher -> Scorer -> Selector -> Ranker
//	           (targets)  (catalog)  (local)   (shortlist) (model)
//
// The Planner turns categories and the free-text request into at most
// MaxTargets keyword searches. The Fetcher runs them (sequentially by default),
// skipping targets that fail, and merges unique items. The Scorer assigns a
// deterministic PreScore from reviews, price fit against a third of the budget,
// and category or custom-keyword matches; an allergy match forces 0. The
// Selector, usually reranking.Diversity, keeps the shortlist balanced across
// targets. The Ranker, usually ai.Ranker, asks the model to pick and explain
// the final items and joins its answer back to the shortlist.
//
// # Caching
//
// Final results are cached per (user, profile update second, sorted
// excludes). A hit skips the catalog and the model entirely.
//
// # Errors
//
// Every failure is an *Error with a Kind. Per-target catalog failures and
// model picks that do not join to a shortlist item are not errors.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Profiles: profiles,
//	    Catalog:  searcher,
//	    Selector: reranking.NewDiversity(),
//	    Ranker:   ranker,
//	    Results:  cache.NewResultCache[[]models.Recommendation](15*time.Minute, 100),
//	}, logger)
//	result, err := engine.Recommend(ctx, recommend.Request{UserID: "u-1"})
package recommend
