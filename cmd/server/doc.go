// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package main is the entry point for the TravelBuddy server.

TravelBuddy fronts Google Places, an LLM chat-completion endpoint and NewsAPI
with named in-memory TTL caches, so repeated planner requests are answered
without paying for another upstream call.

# Application Architecture

	RootSupervisor ("travelbuddy")
	├── CacheSupervisor ("cache-layer")
	│   ├── cache-sweeper:places_ai
	│   ├── cache-sweeper:enrichment
	│   ├── cache-sweeper:search
	│   ├── cache-sweeper:geo
	│   ├── cache-sweeper:news
	│   └── cache-store-gc (only with CACHE_PERSIST_PATH)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Cache store: BadgerDB snapshot store (optional)
 4. Caches: one cache.Cache per route family, registered for admin access
 5. Provider clients: Google, LLM and NewsAPI behind circuit breakers
 6. Services and HTTP handlers: Chi router with middleware stack
 7. Supervisor Tree: Suture v4 process supervision

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=5000
	LOG_LEVEL=info
	LOG_FORMAT=json

	ADMIN_SECRET=<secret>         # Admin routes answer 403 until set
	GOOGLE_PLACES_API_KEY=<key>
	AZURE_OPENAI_ENDPOINT=https://<resource>.openai.azure.com
	AZURE_OPENAI_API_KEY=<key>
	AZURE_OPENAI_DEPLOYMENT=<deployment>
	NEWS_API_KEY=<key>

	CACHE_PERSIST_PATH=/data/cache  # Keep enrichment across restarts

# Graceful Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT, sweepers stop, and the cache
store is closed last.
*/
package main
