// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package services provides suture.Service wrappers for TravelBuddy components.

Each wrapper implements the suture v4 Service interface and fmt.Stringer so
the supervisor can name it in its logs:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTPServerService wraps *http.Server. It turns the blocking ListenAndServe
into a context-aware Serve and performs a graceful Shutdown with its own
timeout once the supervisor cancels the context.

StoreGCService runs Badger value log GC on the persistent cache store at
a fixed interval.

Cache expiry sweepers live in the cache package (cache.Sweeper) and are
added to the same cache layer.
*/
package services
