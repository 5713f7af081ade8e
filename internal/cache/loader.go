// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/travelbuddy/internal/metrics"
)

// LoaderFunc fetches the value for a missing key.
type LoaderFunc[V any] func(ctx context.Context) (V, error)

// TTLLoaderFunc fetches the value for a missing key and chooses its TTL.
// A zero TTL stores the value with the cache default.
type TTLLoaderFunc[V any] func(ctx context.Context) (V, time.Duration, error)

// LoadResult describes how GetOrLoad produced its value.
type LoadResult struct {
	// Hit is true when the value came straight from the cache.
	Hit bool
	// Shared is true when the load was deduplicated with concurrent callers.
	Shared bool
}

// GetOrLoad returns the cached value for key, or calls fn to produce it.
//
// Concurrent misses for the same key share a single call to fn. A successful
// result is stored before any caller returns. An error is returned to every
// waiting caller and nothing is stored.
//
// fn runs detached from the leader's cancellation so that one caller going
// away does not fail the others; the upstream clients bound it with their
// own timeouts. A caller whose ctx is canceled stops waiting and gets ctx.Err().
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, fn LoaderFunc[V]) (V, LoadResult, error) {
	return c.GetOrLoadTTL(ctx, key, func(ctx context.Context) (V, time.Duration, error) {
		v, err := fn(ctx)
		return v, 0, err
	})
}

// GetOrLoadTTL is GetOrLoad with a loader that picks the entry TTL.
func (c *Cache[V]) GetOrLoadTTL(ctx context.Context, key string, fn TTLLoaderFunc[V]) (V, LoadResult, error) {
	if v, ok := c.Get(key); ok {
		return v, LoadResult{Hit: true}, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// A flight that finished between our Get and DoChan already stored it.
		if e, ok := c.Peek(key); ok {
			return e.Value, nil
		}

		start := time.Now()
		c.loads.Add(1)
		v, ttl, err := fn(detached)
		if err != nil {
			c.loadErrors.Add(1)
			metrics.RecordCacheLoad(c.name, "error", time.Since(start))
			return nil, err
		}
		c.SetWithTTL(key, v, ttl)
		metrics.RecordCacheLoad(c.name, "success", time.Since(start))
		return v, nil
	})

	var zero V
	select {
	case res := <-ch:
		result := LoadResult{Shared: res.Shared}
		if res.Shared {
			c.sharedLoads.Add(1)
			metrics.RecordCacheLoad(c.name, "shared", 0)
		}
		if res.Err != nil {
			return zero, result, res.Err
		}
		v, _ := res.Val.(V)
		return v, result, nil
	case <-ctx.Done():
		return zero, LoadResult{}, ctx.Err()
	}
}
