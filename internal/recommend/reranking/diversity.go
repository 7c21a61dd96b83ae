// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package reranking

import (
	"context"
	"slices"
	"strings"

	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

// maxSelectSize limits slice allocations to prevent excessive memory usage.
const maxSelectSize = 10000

// Diversity builds a shortlist with a fair share of slots per search target.
//
// Each target gets up to max(1, k/len(targets)) of its best-scoring
// candidates, in target order. An item that matches several targets is
// assigned to the first. Remaining slots are backfilled by score from the
// whole pool. Items with a PreScore of 0 are never selected.
type Diversity struct{}

// NewDiversity creates a Diversity selector.
func NewDiversity() *Diversity {
	return &Diversity{}
}

// Name returns the selector identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// Select returns at most k candidates.
//
//nolint:gocritic // rangeValCopy: Product passed by value in range, acceptable for clarity
func (d *Diversity) Select(_ context.Context, candidates []models.Product, targets []recommend.SearchTarget, k int) []models.Product {
	if len(candidates) == 0 || k <= 0 {
		return nil
	}
	if k > maxSelectSize {
		k = maxSelectSize
	}

	// Qualifying pool, best first. Stable so equal scores keep fetch order.
	pool := make([]models.Product, 0, len(candidates))
	for _, c := range candidates {
		if c.PreScore > 0 {
			pool = append(pool, c)
		}
	}
	slices.SortStableFunc(pool, func(a, b models.Product) int {
		switch {
		case a.PreScore > b.PreScore:
			return -1
		case a.PreScore < b.PreScore:
			return 1
		default:
			return 0
		}
	})

	selected := make([]models.Product, 0, min(k, len(pool)))
	seen := make(map[string]struct{}, k)

	if len(targets) > 0 {
		perTarget := max(1, k/len(targets))
		for _, t := range targets {
			for _, c := range topForTarget(pool, t, perTarget) {
				if _, dup := seen[c.ItemID]; dup {
					continue
				}
				seen[c.ItemID] = struct{}{}
				selected = append(selected, c)
			}
		}
	}

	// Backfill from the remaining pool.
	for _, c := range pool {
		if len(selected) >= k {
			break
		}
		if _, dup := seen[c.ItemID]; dup {
			continue
		}
		seen[c.ItemID] = struct{}{}
		selected = append(selected, c)
	}

	if len(selected) > k {
		selected = selected[:k]
	}
	return selected
}

// topForTarget returns up to n items of the sorted pool that belong to t: the
// name contains the keyword, or the item was found by that keyword.
func topForTarget(pool []models.Product, t recommend.SearchTarget, n int) []models.Product {
	kw := strings.ToLower(strings.TrimSpace(t.Keyword))
	if kw == "" {
		return nil
	}

	out := make([]models.Product, 0, n)
	for _, c := range pool {
		if len(out) == n {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), kw) || strings.ToLower(c.SourceKeyword) == kw {
			out = append(out, c)
		}
	}
	return out
}

var _ recommend.Selector = (*Diversity)(nil)
