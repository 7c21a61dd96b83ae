// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package recommend

import (
	"context"
	"slices"
	"time"

	"github.com/tomtom215/shortlist/internal/models"
)

// TargetType distinguishes category keywords from the free-text request.
type TargetType string

const (
	TargetCategory TargetType = "category"
	TargetCustom   TargetType = "custom"
)

// SearchTarget is one keyword to search the catalog for.
type SearchTarget struct {
	Type    TargetType `json:"type"`
	ID      string     `json:"id"`
	Keyword string     `json:"keyword"`
}

// UserContext is the per-request snapshot of a profile. It is never mutated
// after construction.
type UserContext struct {
	UserID        string
	Categories    []string // non-empty after default fill
	CustomRequest string
	Allergies     []string
	Family        models.FamilyStructure
	Budget        *int // nil when the user has no calculated limit
	UpdatedAt     time.Time
}

// NewUserContext snapshots p. An empty category list is replaced by
// defaultCategories.
func NewUserContext(p *models.UserProfile, defaultCategories []string) UserContext {
	uc := UserContext{
		UserID:    p.UserID,
		Family:    p.FamilyStructure,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Preferences != nil {
		uc.Categories = slices.Clone(p.Preferences.Categories)
		uc.CustomRequest = p.Preferences.CustomRequest
		uc.Allergies = slices.Clone(p.Preferences.Allergies)
	}
	if len(uc.Categories) == 0 {
		uc.Categories = slices.Clone(defaultCategories)
	}
	if p.CalculatedLimit != nil {
		v := *p.CalculatedLimit
		uc.Budget = &v
	}
	return uc
}

// IdealPrice is a third of the budget, or 0 when there is no usable budget.
func (uc UserContext) IdealPrice() float64 {
	if uc.Budget == nil || *uc.Budget <= 0 {
		return 0
	}
	return float64(*uc.Budget) / 3
}

// Request is one recommendation request.
type Request struct {
	UserID           string
	ExcludeItemCodes []string
	RequestID        string
}

// Result is a successful recommendation run.
type Result struct {
	Recommendations []models.Recommendation
	Cached          bool
	RequestID       string
}

// CatalogSearcher runs catalog queries. Ready reports missing credentials.
type CatalogSearcher interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.Product, error)
	Ready() error
}

// ProfileStore looks up user profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Selector narrows scored candidates to a shortlist of at most k items.
// Candidates carry PreScore; items scoring 0 must never be selected.
type Selector interface {
	Name() string
	Select(ctx context.Context, candidates []models.Product, targets []SearchTarget, k int) []models.Product
}

// Ranker orders a shortlist and explains each pick. Every returned
// recommendation must reference an item of shortlist.
type Ranker interface {
	Rank(ctx context.Context, uc UserContext, shortlist []models.Product) ([]models.Recommendation, error)
}

// ResultCache caches final recommendations by request key.
type ResultCache interface {
	Get(key string) ([]models.Recommendation, bool)
	Set(key string, recs []models.Recommendation)
}
