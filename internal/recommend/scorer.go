// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"math"
	"strings"
	"unicode"

	"github.com/tomtom215/shortlist/internal/models"
)

// Score component caps.
const (
	maxReviewAverageScore = 25.0
	maxReviewCountScore   = 5.0
	maxPriceFitScore      = 20.0
	categoryMatchBonus    = 15.0
	customMatchBonus      = 15.0
)

// ScoringContext is the per-request input to Score. Build it once with
// NewScoringContext; all strings are already lowercased.
type ScoringContext struct {
	CategoryTerms  []string
	CustomKeywords []string
	Allergies      []string
	IdealPrice     float64
}

// NewScoringContext derives the scoring inputs from uc. A category matches
// through its id or any keyword the table maps it to.
func NewScoringContext(uc UserContext, table KeywordTable) ScoringContext {
	sc := ScoringContext{IdealPrice: uc.IdealPrice()}
	for _, id := range uc.Categories {
		for _, term := range table.Terms(id) {
			sc.CategoryTerms = appendLower(sc.CategoryTerms, term)
		}
	}
	for _, kw := range SplitCustomRequest(uc.CustomRequest) {
		sc.CustomKeywords = appendLower(sc.CustomKeywords, kw)
	}
	for _, a := range uc.Allergies {
		sc.Allergies = appendLower(sc.Allergies, a)
	}
	return sc
}

func appendLower(dst []string, s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return dst
	}
	return append(dst, s)
}

// SplitCustomRequest splits free text on whitespace (including the
// ideographic space U+3000) and ASCII or full-width commas.
func SplitCustomRequest(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '　' || r == ',' || r == '、' || r == '，'
	})
}

// Score is a pure function of p and sc. An allergy match returns exactly 0.
func Score(p models.Product, sc ScoringContext) float64 {
	name := strings.ToLower(p.Name)

	for _, allergen := range sc.Allergies {
		if strings.Contains(name, allergen) {
			return 0
		}
	}

	score := ReviewScore(p.ReviewAverage, p.ReviewCount) + PriceFitScore(p.Price, sc.IdealPrice)
	if containsAny(name, sc.CategoryTerms) {
		score += categoryMatchBonus
	}
	if containsAny(name, sc.CustomKeywords) {
		score += customMatchBonus
	}
	return score
}

// ReviewScore is min(avg*5, 25) + min(log10(count+1)*2, 5), or 0 without
// reviews.
func ReviewScore(average float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(average*5, maxReviewAverageScore) +
		math.Min(math.Log10(float64(count)+1)*2, maxReviewCountScore)
}

// PriceFitScore is max(0, 20 - 20*|price-ideal|/ideal), or 0 when there is
// no ideal price.
func PriceFitScore(price int, ideal float64) float64 {
	if ideal <= 0 {
		return 0
	}
	return math.Max(0, maxPriceFitScore-maxPriceFitScore*math.Abs(float64(price)-ideal)/ideal)
}

func containsAny(name string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}

// ScoreAll sets PreScore on every candidate in place.
func ScoreAll(candidates []models.Product, sc ScoringContext) {
	for i := range candidates {
		candidates[i].PreScore = Score(candidates[i], sc)
	}
}
