// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"
)

// keywordsPerWideCategory is how many keywords a category with three or more
// keywords contributes.
const keywordsPerWideCategory = 2

// Randomizer is the planner's source of randomness. *rand.Rand satisfies it.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
	Perm(n int) []int
}

// lockedRand makes a *rand.Rand safe for concurrent requests.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer returns a goroutine-safe Randomizer. A zero seed seeds from
// the clock.
func NewRandomizer(seed int64) Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // math/rand is fine for target shuffling
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

func (r *lockedRand) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Perm(n)
}

// Planner turns a user's categories and free-text request into search
// targets. It is safe for concurrent use if its Randomizer is.
type Planner struct {
	keywords   KeywordTable
	maxTargets int
	defaults   []string
	rng        Randomizer
}

// NewPlanner creates a planner emitting at most maxTargets targets.
func NewPlanner(keywords KeywordTable, maxTargets int, defaults []string, rng Randomizer) *Planner {
	return &Planner{
		keywords:   keywords,
		maxTargets: maxTargets,
		defaults:   defaults,
		rng:        rng,
	}
}

// Plan returns the search targets for uc in search order.
//
// Categories are shuffled, then each contributes one keyword, or two picked
// at random when it maps to three or more. Unknown categories are skipped.
// A non-empty custom request takes one extra slot if any remain.
func (p *Planner) Plan(uc UserContext) []SearchTarget {
	categories := slices.Clone(uc.Categories)
	if len(categories) == 0 {
		categories = slices.Clone(p.defaults)
	}
	p.rng.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	targets := make([]SearchTarget, 0, p.maxTargets)

categories:
	for _, id := range categories {
		for _, kw := range p.keywordsFor(id) {
			if len(targets) >= p.maxTargets {
				break categories
			}
			targets = append(targets, SearchTarget{Type: TargetCategory, ID: id, Keyword: kw})
		}
	}

	if custom := strings.TrimSpace(uc.CustomRequest); custom != "" && len(targets) < p.maxTargets {
		targets = append(targets, SearchTarget{Type: TargetCustom, ID: string(TargetCustom), Keyword: custom})
	}
	return targets
}

func (p *Planner) keywordsFor(id string) []string {
	kws := p.keywords[id]
	switch {
	case len(kws) == 0:
		return nil
	case len(kws) >= 3:
		perm := p.rng.Perm(len(kws))
		picked := make([]string, keywordsPerWideCategory)
		for i := range picked {
			picked[i] = kws[perm[i]]
		}
		return picked
	default:
		return kws[:1]
	}
}
