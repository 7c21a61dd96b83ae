// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package ai

import (
	"strings"
	"testing"

	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	budget := 60000
	uc := recommend.UserContext{
		UserID:        "u-1",
		Categories:    []string{"meat", "rice"},
		CustomRequest: "  旬の果物  ",
		Allergies:     []string{"えび", " "},
		Family:        models.FamilyStructure{Adults: 2, Children: 1},
		Budget:        &budget,
	}
	shortlist := []models.Product{
		{ItemID: "shop:1", Name: "黒毛和牛 切り落とし 500g", Price: 12000},
		{ItemID: "shop:2", Name: "line\nbreak | pipe", Price: 3000},
	}

	got := BuildPrompt(uc, shortlist, 9, 50)

	for _, want := range []string{
		"Choose the 9 items",
		"2 adults, 1 children",
		"Preferred categories: meat, rice",
		"Request: 旬の果物\n",
		"Allergies (never choose items containing these): えび\n",
		"Total budget: 60000 yen",
		"shop:1 | 黒毛和牛 切り落とし 500g | 12000\n",
		"shop:2 | line break / pipe | 3000\n",
		`{"recommendations":[{"itemCode"`,
		"at most 9 entries",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}
}

func TestBuildPromptOmitsEmptySections(t *testing.T) {
	t.Parallel()

	got := BuildPrompt(recommend.UserContext{UserID: "u"}, nil, 9, 50)
	for _, absent := range []string{"Request:", "Allergies", "Total budget", "Preferred categories"} {
		if strings.Contains(got, absent) {
			t.Errorf("prompt should not contain %q", absent)
		}
	}
	if !strings.Contains(got, "Household: unspecified") {
		t.Error("expected unspecified household")
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 3, "abc"},
		{"abc", 10, "abc"},
		{"和牛すき焼き", 2, "和牛"},
		{"abc", 0, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
