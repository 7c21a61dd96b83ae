// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package ai

import (
	"fmt"
	"strings"

	"github.com/tomtom215/shortlist/internal/models"
	"github.com/tomtom215/shortlist/internal/recommend"
)

// BuildPrompt renders the ranking prompt. Each candidate takes one line of
// id, name cut to nameMaxRunes runes, and price.
func BuildPrompt(uc recommend.UserContext, shortlist []models.Product, count, nameMaxRunes int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a shopping assistant. Choose the %d items below that best suit this household.\n\n", count)

	b.WriteString("Household: ")
	b.WriteString(describeFamily(uc.Family))
	b.WriteByte('\n')
	if len(uc.Categories) > 0 {
		fmt.Fprintf(&b, "Preferred categories: %s\n", strings.Join(uc.Categories, ", "))
	}
	if req := strings.TrimSpace(uc.CustomRequest); req != "" {
		fmt.Fprintf(&b, "Request: %s\n", req)
	}
	if allergies := nonBlank(uc.Allergies); len(allergies) > 0 {
		fmt.Fprintf(&b, "Allergies (never choose items containing these): %s\n", strings.Join(allergies, ", "))
	}
	if uc.Budget != nil && *uc.Budget > 0 {
		fmt.Fprintf(&b, "Total budget: %d yen\n", *uc.Budget)
	}

	b.WriteString("\nCandidates (id | name | price):\n")
	for _, p := range shortlist {
		fmt.Fprintf(&b, "%s | %s | %d\n", p.ItemID, truncateRunes(oneLine(p.Name), nameMaxRunes), p.Price)
	}

	fmt.Fprintf(&b, `
Respond with exactly one JSON object and nothing else, no markdown and no prose:
{"recommendations":[{"itemCode":"<id from the list>","reason":"<one short sentence>","score":<0-100>}]}
Use only ids from the list, each at most once. Return at most %d entries, best first.
Write each reason in the language of the item names.
`, count)

	return b.String()
}

func describeFamily(f models.FamilyStructure) string {
	parts := make([]string, 0, 4)
	if f.Adults > 0 {
		parts = append(parts, fmt.Sprintf("%d adults", f.Adults))
	}
	if f.Children > 0 {
		parts = append(parts, fmt.Sprintf("%d children", f.Children))
	}
	if f.Seniors > 0 {
		parts = append(parts, fmt.Sprintf("%d seniors", f.Seniors))
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		parts = append(parts, notes)
	}
	if len(parts) == 0 {
		return "unspecified"
	}
	return strings.Join(parts, ", ")
}

// truncateRunes cuts s to at most n runes. n <= 0 disables truncation.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// oneLine keeps a name from breaking the id | name | price layout.
func oneLine(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "|", "/").Replace(s)
	return strings.TrimSpace(s)
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
