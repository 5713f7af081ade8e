// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package supervisor provides process supervision for TravelBuddy using suture v4.

Every long-running goroutine in the process is a supervised service. A
service that returns an error is restarted with backoff; a canceled root
context stops the whole tree in order.

# Overview

	RootSupervisor ("travelbuddy")
	├── CacheSupervisor ("cache-layer")
	│   ├── cache.Sweeper, one per cache
	│   └── StoreGCService (when persistence is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service start, failure, backoff) are logged through
sutureslog on a slog.Logger backed by the zerolog global logger.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddCacheService(cache.NewSweeper(placesCache, placesCache.SweepInterval()))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped with error")
	}
*/
package supervisor
