// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package cache

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Catalog query defaults applied during key normalization.
const (
	DefaultSort     = "standard"
	DefaultPageSize = 30

	catalogKeyPrefix = "catalog:"
	noMaxPrice       = "none"
)

// ResultKey builds the in-process result cache key.
//
// The profile timestamp is truncated to whole seconds so that sub-second
// differences between storage backends do not split entries. The exclude
// list is treated as a set: order, duplicates and blank codes do not matter,
// and an omitted list keys the same as an empty one. The caller's slice is
// not modified.
func ResultKey(userID string, updatedAt time.Time, excludeIDs []string) string {
	sorted := make([]string, 0, len(excludeIDs))
	for _, id := range excludeIDs {
		if strings.TrimSpace(id) != "" {
			sorted = append(sorted, id)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	payload := struct {
		UserID    string   `json:"u"`
		UpdatedAt int64    `json:"t"`
		Exclude   []string `json:"x"`
	}{
		UserID:    userID,
		UpdatedAt: updatedAt.Truncate(time.Second).Unix(),
		Exclude:   sorted,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// A struct of strings cannot fail to marshal; keep a usable key anyway.
		return fmt.Sprintf("result:%s:%d:%s", userID, payload.UpdatedAt, strings.Join(sorted, ","))
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("result:%x", hash[:16])
}

// CatalogKey identifies one catalog search in the persisted cache.
type CatalogKey struct {
	Keyword  string
	MaxPrice *int
	Sort     string
	PageSize int
}

// Normalize returns k with the keyword lowercased and trimmed and with
// defaults filled in for an empty sort or non-positive page size.
func (k CatalogKey) Normalize() CatalogKey {
	n := CatalogKey{
		Keyword:  strings.ToLower(strings.TrimSpace(k.Keyword)),
		Sort:     k.Sort,
		PageSize: k.PageSize,
	}
	if k.MaxPrice != nil {
		v := *k.MaxPrice
		n.MaxPrice = &v
	}
	if n.Sort == "" {
		n.Sort = DefaultSort
	}
	if n.PageSize <= 0 {
		n.PageSize = DefaultPageSize
	}
	return n
}

// String renders the normalized key. An absent max price is its own bucket,
// distinct from every concrete value.
//
//	catalog:kw=wagyu|max=none|sort=standard|hits=30
func (k CatalogKey) String() string {
	n := k.Normalize()
	maxPrice := noMaxPrice
	if n.MaxPrice != nil {
		maxPrice = strconv.Itoa(*n.MaxPrice)
	}
	return fmt.Sprintf("%skw=%s|max=%s|sort=%s|hits=%d", catalogKeyPrefix, n.Keyword, maxPrice, n.Sort, n.PageSize)
}
