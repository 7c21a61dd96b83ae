// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package testinfra provides container-backed infrastructure for integration
// tests.
//
// Everything here is behind the integration build tag and uses
// testcontainers-go to run the real backing services Shortlist talks to:
//
//   - RedisContainer: a Redis server for the catalog cache's redis backend
//   - PostgresContainer: a PostgreSQL server with the profile schema applied
//   - MockCatalogServer: an in-process HTTP server speaking the item search
//     wire format, recording every query it receives
//
// Example:
//
//	func TestRedisCatalogCache(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    store, err := cache.NewRedisStore(ctx, cache.RedisOptions{Addr: redis.Addr})
//	    // ...
//	}
//
// Run with:
//
//	go test -tags integration ./internal/testinfra/...
//
// Tests skip when Docker is not available. The first run pulls images.
package testinfra
