// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package cache provides the two cache tiers of the recommendation pipeline.

# Result Cache

ResultCache is an in-process TTL map keyed by ResultKey. A hit returns the
final recommendations for a user without calling the catalog or the model.
The key covers the user id, the profile's update time (whole seconds) and the
sorted exclude list, so editing a profile or changing excludes is a miss.

	results := cache.NewResultCache[[]models.Recommendation](15*time.Minute, 100)

When an insert grows the map past its threshold, every expired entry is
swept. Live entries are never evicted early.

# Catalog Cache

CatalogCache persists raw catalog search results keyed by the normalized
CatalogKey (keyword lowercased and trimmed, max price with "none" as its own
bucket, sort, page size). Entries older than the TTL read as a miss but are
not deleted on read; Prune removes them in the background.

Backends implement Store:
  - BadgerStore: embedded BadgerDB (default)
  - RedisStore: shared Redis for multi-instance deployments
  - MemoryStore: process-local map for development and tests

Backend failures never reach the caller. Reads degrade to a miss and writes
to a no-op, with a warning log and a cache_errors_total increment.
*/
package cache
