// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package models

import "time"

// UserProfile is the read-only view of a user that the profile store hands
// to the recommendation pipeline.
//
// Preferences is nil when the user exists but has never filled in their
// preferences; the pipeline reports that as "no user data".
// CalculatedLimit is the budget ceiling in yen computed upstream; nil means
// the user has no budget yet.
type UserProfile struct {
	UserID          string          `json:"userId"`
	Preferences     *Preferences    `json:"preferences,omitempty"`
	FamilyStructure FamilyStructure `json:"familyStructure"`
	CalculatedLimit *int            `json:"calculatedLimit,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Preferences are the user's stated shopping preferences.
type Preferences struct {
	Categories    []string `json:"categories"`
	CustomRequest string   `json:"customRequest,omitempty"`
	Allergies     []string `json:"allergies"`
}

// FamilyStructure describes the household. It is only used as prompt context.
type FamilyStructure struct {
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
	Seniors  int    `json:"seniors"`
	Notes    string `json:"notes,omitempty"`
}
