// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

// Package main is the entry point for the Shortlist server.
//
// Shortlist answers POST /recommendations with a small set of catalog items
// that fit a household's budget, preferences and allergies. Each request runs
// a pipeline: plan keyword searches from the profile, fetch candidates from
// the item search API, score and filter them locally, pick a diverse
// shortlist, and ask a generative model to rank it.
//
// # Startup Order
//
//  1. Environment: an optional .env file is loaded into the process environment
//  2. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  3. Logging: zerolog, JSON or console
//  4. Catalog cache store: badger, redis, memory or none
//  5. Profile store: postgres or an in-memory seed file
//  6. Catalog client, AI ranker and recommendation engine
//  7. Supervisor tree: HTTP server (api layer) and cache pruning (maintenance layer)
//
// # Configuration
//
// The most common environment variables:
//
//	CATALOG_APPLICATION_ID   item search credential (required for recommendations)
//	GEMINI_API_KEY           generative model key (required for ranking)
//	CATALOG_CACHE_BACKEND    badger | redis | memory | none
//	PROFILE_BACKEND          postgres | memory
//	DATABASE_URL             postgres connection string
//	HTTP_PORT                listen port (default 3857)
//
// The service starts without catalog or model credentials; /health reports
// "degraded" and recommendation requests fail with a configuration error.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server, which drains in-flight requests for up to SHUTDOWN_TIMEOUT,
// and the stores are closed after the tree has stopped.
//
// # Example Usage
//
//	export CATALOG_APPLICATION_ID=your-app-id
//	export GEMINI_API_KEY=your-key
//	export PROFILE_SEED_FILE=./profiles.json
//	./shortlist
//
//	curl -s -X POST localhost:3857/recommendations \
//	  -H 'Content-Type: application/json' \
//	  -d '{"userId":"u-1","excludeItemCodes":[]}'
package main
