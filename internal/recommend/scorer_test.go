// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/shortlist/internal/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func intPtr(v int) *int { return &v }

func TestReviewScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		avg   float64
		count int
		want  float64
	}{
		{"no reviews", 5, 0, 0},
		{"perfect with 100 reviews", 5, 100, 25 + math.Log10(101)*2},
		{"count capped", 4, 1000000, 20 + 5},
		{"single review", 3, 1, 15 + math.Log10(2)*2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReviewScore(tt.avg, tt.count); !approx(got, tt.want) {
				t.Errorf("ReviewScore(%v, %d) = %v, want %v", tt.avg, tt.count, got, tt.want)
			}
		})
	}
}

func TestPriceFitScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price int
		ideal float64
		want  float64
	}{
		{20000, 20000, 20},
		{10000, 20000, 10},
		{30000, 20000, 10},
		{40000, 20000, 0},
		{90000, 20000, 0},
		{5000, 0, 0},
	}
	for _, tt := range tests {
		if got := PriceFitScore(tt.price, tt.ideal); !approx(got, tt.want) {
			t.Errorf("PriceFitScore(%d, %v) = %v, want %v", tt.price, tt.ideal, got, tt.want)
		}
	}
}

func TestScoreBudgetScenario(t *testing.T) {
	t.Parallel()

	uc := UserContext{Categories: []string{"meat", "rice"}, Budget: intPtr(60000)}
	sc := NewScoringContext(uc, KeywordTable{"meat": {"牛肉", "豚肉", "鶏肉"}, "rice": {"米"}})
	if sc.IdealPrice != 20000 {
		t.Fatalf("IdealPrice = %v, want 20000", sc.IdealPrice)
	}

	plain := models.Product{ItemID: "a", Name: "Gift box", Price: 20000, ReviewAverage: 5, ReviewCount: 100}
	base := Score(plain, sc)
	if !approx(base, 49.01) {
		t.Errorf("score without category match = %v, want ~49.01 (29.01 review + 20 price)", base)
	}

	withCategory := plain
	withCategory.Name = "黒毛和牛 牛肉 すき焼き用"
	if got := Score(withCategory, sc); !approx(got, base+15) {
		t.Errorf("score with category match = %v, want %v", got, base+15)
	}
}

func TestScoreBonusesDoNotStack(t *testing.T) {
	t.Parallel()

	uc := UserContext{
		Categories:    []string{"meat"},
		CustomRequest: "wagyu、gift　box,premium",
	}
	sc := NewScoringContext(uc, KeywordTable{"meat": {"beef"}})
	if !reflect.DeepEqual(sc.CustomKeywords, []string{"wagyu", "gift", "box", "premium"}) {
		t.Fatalf("CustomKeywords = %v", sc.CustomKeywords)
	}

	p := models.Product{Name: "Premium Wagyu Beef Meat Gift Box"}
	if got := Score(p, sc); got != 30 {
		t.Errorf("Score = %v, want 30 (one category bonus + one custom bonus)", got)
	}
}

func TestScoreAllergyVeto(t *testing.T) {
	t.Parallel()

	uc := UserContext{
		Categories:    []string{"seafood"},
		CustomRequest: "えび",
		Allergies:     []string{"えび", " ", "Peanut"},
		Budget:        intPtr(30000),
	}
	sc := NewScoringContext(uc, KeywordTable{"seafood": {"えび", "カニ", "いくら"}})

	shrimp := models.Product{Name: "特大 えび 1kg", Price: 10000, ReviewAverage: 5, ReviewCount: 500}
	if got := Score(shrimp, sc); got != 0 {
		t.Errorf("allergen item scored %v, want exactly 0", got)
	}

	peanuts := models.Product{Name: "Roasted PEANUTS", Price: 10000, ReviewAverage: 5, ReviewCount: 500}
	if got := Score(peanuts, sc); got != 0 {
		t.Errorf("case-insensitive allergen scored %v, want 0", got)
	}

	crab := models.Product{Name: "カニ 2kg", Price: 10000, ReviewAverage: 5, ReviewCount: 500}
	if got := Score(crab, sc); got <= 0 {
		t.Errorf("blank allergy entry must not veto everything, got %v", got)
	}
}

func TestScoreIsPure(t *testing.T) {
	t.Parallel()

	uc := UserContext{Categories: []string{"fruit"}, Budget: intPtr(12000)}
	sc := NewScoringContext(uc, DefaultKeywords)
	p := models.Product{Name: "シャインマスカット 2房", Price: 5000, ReviewAverage: 4.4, ReviewCount: 37}

	first := Score(p, sc)
	for i := 0; i < 5; i++ {
		if got := Score(p, sc); got != first {
			t.Fatalf("Score changed between calls: %v vs %v", first, got)
		}
	}
}

func TestScoreAllSetsPreScore(t *testing.T) {
	t.Parallel()

	items := []models.Product{
		{ItemID: "a", Name: "rice", ReviewAverage: 4, ReviewCount: 9},
		{ItemID: "b", Name: "rice", ReviewCount: 0},
	}
	ScoreAll(items, ScoringContext{})
	if !approx(items[0].PreScore, 22) {
		t.Errorf("PreScore = %v, want 22", items[0].PreScore)
	}
	if items[1].PreScore != 0 {
		t.Errorf("PreScore = %v, want 0", items[1].PreScore)
	}
}
