// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"reflect"
	"testing"
)

var testKeywords = KeywordTable{
	"meat":    {"beef", "pork", "chicken", "lamb"},
	"rice":    {"rice"},
	"fruit":   {"grape", "melon", "strawberry"},
	"noodles": {"udon"},
	"sweets":  {"chocolate", "cake", "pudding"},
	"drinks":  {"tea"},
	"eggs":    {"egg"},
}

func TestPlannerDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	uc := UserContext{Categories: []string{"meat", "rice", "fruit", "noodles"}, CustomRequest: "kids snacks"}
	a := NewPlanner(testKeywords, 10, nil, NewRandomizer(7)).Plan(uc)
	b := NewPlanner(testKeywords, 10, nil, NewRandomizer(7)).Plan(uc)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different plans:\n%v\n%v", a, b)
	}
}

func TestPlannerKeywordExpansion(t *testing.T) {
	t.Parallel()

	uc := UserContext{Categories: []string{"meat", "rice"}}
	targets := NewPlanner(testKeywords, 10, nil, NewRandomizer(1)).Plan(uc)

	perCategory := map[string]int{}
	for _, tg := range targets {
		if tg.Type != TargetCategory {
			t.Errorf("unexpected target type %q", tg.Type)
		}
		perCategory[tg.ID]++
	}
	if perCategory["meat"] != 2 {
		t.Errorf("meat (4 keywords) should yield 2 targets, got %d", perCategory["meat"])
	}
	if perCategory["rice"] != 1 {
		t.Errorf("rice (1 keyword) should yield 1 target, got %d", perCategory["rice"])
	}

	meat := map[string]bool{}
	for _, tg := range targets {
		if tg.ID == "meat" {
			if meat[tg.Keyword] {
				t.Errorf("keyword %q picked twice", tg.Keyword)
			}
			meat[tg.Keyword] = true
		}
	}
}

func TestPlannerCapsTargets(t *testing.T) {
	t.Parallel()

	uc := UserContext{
		Categories:    []string{"meat", "fruit", "sweets", "rice", "noodles", "drinks", "eggs"},
		CustomRequest: "something special",
	}
	// 2+2+2+1+1+1+1 = 10 category slots, so the custom target has no room.
	targets := NewPlanner(testKeywords, 10, nil, NewRandomizer(3)).Plan(uc)
	if len(targets) != 10 {
		t.Fatalf("len = %d, want 10", len(targets))
	}
	for _, tg := range targets {
		if tg.Type == TargetCustom {
			t.Error("custom target must not exceed the cap")
		}
	}

	small := NewPlanner(testKeywords, 3, nil, NewRandomizer(3)).Plan(uc)
	if len(small) != 3 {
		t.Errorf("len = %d, want 3", len(small))
	}
}

func TestPlannerCustomTarget(t *testing.T) {
	t.Parallel()

	uc := UserContext{Categories: []string{"rice"}, CustomRequest: "  organic brown rice  "}
	targets := NewPlanner(testKeywords, 10, nil, NewRandomizer(1)).Plan(uc)
	if len(targets) != 2 {
		t.Fatalf("len = %d, want 2", len(targets))
	}
	last := targets[1]
	if last.Type != TargetCustom || last.Keyword != "organic brown rice" {
		t.Errorf("custom target = %+v", last)
	}
}

func TestPlannerSkipsUnknownAndUsesDefaults(t *testing.T) {
	t.Parallel()

	p := NewPlanner(testKeywords, 10, []string{"rice", "noodles"}, NewRandomizer(1))

	targets := p.Plan(UserContext{Categories: []string{"spaceships", "rice"}})
	if len(targets) != 1 || targets[0].Keyword != "rice" {
		t.Errorf("unknown category should be skipped, got %+v", targets)
	}

	targets = p.Plan(UserContext{})
	if len(targets) != 2 {
		t.Errorf("defaults should produce 2 targets, got %+v", targets)
	}
}
