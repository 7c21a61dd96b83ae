// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package services adapts Shortlist's long-running components to suture.Service.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when its context is canceled.
  - PruneService: periodically deletes persisted catalog cache entries
    older than the cache TTL.

Every service returns ctx.Err() on shutdown so suture does not treat a clean
stop as a failure, and implements fmt.Stringer for supervisor logs.
*/
package services
