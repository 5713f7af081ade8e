// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package cache provides the generic TTL cache that sits in front of every
external lookup in TravelBuddy (Google Places, the LLM endpoint, NewsAPI).

# Overview

One Cache[V] type replaces the per-route maps. Each instance is built at
startup with its own name, TTL, size bound and eviction policy, and is
injected into the service that owns it:

	placesCache := cache.New[places.NearbyResult](cache.Options{
	    Name: "places_ai",
	    TTL:  time.Hour,
	})
	svc := places.NewAINearbyService(llmClient, google, placesCache)

# Semantics

  - An entry is valid iff now - StoredAt < TTL. There is no soft expiry.
  - Get removes an expired entry it finds and reports a miss.
  - Set always overwrites and resets StoredAt.
  - With MaxEntries > 0, the cache never holds more than MaxEntries after a
    Set. PolicyFIFO evicts the oldest insertion, PolicyLRU the least
    recently read entry.
  - Clear removes everything, including persisted entries.

# Miss Path

GetOrLoad wraps the miss path in golang.org/x/sync/singleflight keyed by the
cache key, so concurrent misses for the same key share one upstream call:

	result, res, err := c.GetOrLoad(ctx, key, func(ctx context.Context) (NearbyResult, error) {
	    return fetchFromUpstream(ctx)
	})

Failed loads store nothing. GetOrLoadTTL lets the loader pick a shorter TTL,
which the enrichment service uses for fallback payloads.

# Keys

KeyBuilder derives keys from request parameters only. Coordinates are rounded
to CoordPrecision (4) decimals and preference objects are serialized as
canonical JSON, so equal requests always share an entry:

	cache.NewKey("geo").Coord(6.92712, 79.86118).String() // geo_6.9271_79.8612

# Persistence

A Store (see package badgerstore) adds write-through persistence; Restore
reloads live entries at startup. Store errors are logged and counted, never
surfaced to callers.

# Metrics

Every cache reports cache_hits_total, cache_misses_total, cache_entries,
cache_evictions_total, cache_expirations_total and cache_loads_total under a
"cache" label equal to its name.
*/
package cache
