// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get for a missing key.
var ErrNotFound = errors.New("cache: key not found")

// Store is a byte-oriented key/value backend for the persisted catalog cache.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Scan calls fn for every key starting with prefix. Returning an error
	// from fn stops the scan and is returned from Scan.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}
