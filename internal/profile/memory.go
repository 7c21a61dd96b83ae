// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package profile

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shortlist/internal/models"
)

// MemoryStore keeps profiles in a map. It backs local runs (seeded from a
// JSON file) and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

// NewMemoryStore creates a store holding profiles.
func NewMemoryStore(profiles ...models.UserProfile) *MemoryStore {
	s := &MemoryStore{profiles: make(map[string]models.UserProfile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

// LoadMemoryStore reads a JSON array of profiles from path.
//
//	[{"userId": "u-1", "preferences": {"categories": ["meat"]}, "calculatedLimit": 60000,
//	  "updatedAt": "2026-03-01T12:00:00Z"}]
func LoadMemoryStore(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile seed file: %w", err)
	}
	var profiles []models.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profile seed file %s: %w", path, err)
	}
	for i, p := range profiles {
		if p.UserID == "" {
			return nil, fmt.Errorf("profile seed file %s: entry %d has no userId", path, i)
		}
	}
	return NewMemoryStore(profiles...), nil
}

// Put inserts or replaces a profile.
func (s *MemoryStore) Put(p models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// Len returns the number of stored profiles.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

var _ Store = (*MemoryStore)(nil)
