// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package supervisor runs Shortlist's long-lived services under suture v4.

# Overview

	RootSupervisor ("shortlist")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── PruneService (when a persisted catalog cache is configured)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing prune loop is restarted with backoff without touching the HTTP
server, and the reverse.

Supervisor events (start, stop, panic, backoff) are logged through
sutureslog into the zerolog-backed slog handler from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMaintenanceService(services.NewPruneService(catalogCache, cfg.Cache.PruneInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx) // returns once every service has stopped

# Shutdown

Cancelling the context passed to Serve stops every service. Each gets
ShutdownTimeout to return; UnstoppedServiceReport lists any that did not.
*/
package supervisor
