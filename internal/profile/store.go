// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package profile reads user profiles for the recommendation pipeline.
// Profiles are owned and written elsewhere; this package only reads them.
package profile

import (
	"context"
	"errors"

	"github.com/tomtom215/shortlist/internal/models"
)

// ErrNotFound is returned when no profile exists for a user id.
var ErrNotFound = errors.New("profile: user not found")

// Store looks up a user's profile.
type Store interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
}
