// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"context"
	"time"
)

// Inspector is the type-erased view of a cache used by admin endpoints.
// Every *Cache[V] satisfies it whatever V is.
type Inspector interface {
	// Name returns the registry name.
	Name() string

	// Stats returns a snapshot of the cache counters.
	Stats() Stats

	// Keys returns keys in eviction order, next to be evicted first.
	Keys() []string

	// Clear removes all entries.
	Clear()
}

// Sweepable is anything a Sweeper can periodically clean.
type Sweepable interface {
	Name() string
	Sweep() int
}

// StoredEntry is the persisted form of an Entry. Value holds the JSON
// encoding of the cached value.
type StoredEntry struct {
	Key      string
	Value    []byte
	StoredAt time.Time
	TTL      time.Duration
}

// Store persists cache entries across restarts.
//
// Implementations must be safe for concurrent use. The cache treats store
// failures as non-fatal: they are logged and counted, never returned to
// request handlers.
type Store interface {
	// Load returns every entry that has not yet expired.
	Load(ctx context.Context) ([]StoredEntry, error)

	// Save writes or replaces an entry.
	Save(entry StoredEntry) error

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(key string) error

	// Clear removes all entries owned by this store.
	Clear() error
}

// Verify interface implementations at compile time
var (
	_ Inspector = (*Cache[string])(nil)
	_ Sweepable = (*Cache[string])(nil)
)
