// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/travelbuddy/internal/logging"
)

// Sweeper periodically removes expired entries from a cache.
//
// It implements suture.Service so the supervisor tree owns its lifecycle:
//
//	tree.AddCacheService(cache.NewSweeper(placesCache, 5*time.Minute))
type Sweeper struct {
	target   Sweepable
	interval time.Duration
}

// NewSweeper creates a sweeper. A non-positive interval defaults to 5 minutes.
func NewSweeper(target Sweepable, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{target: target, interval: interval}
}

// Serve sweeps every interval until ctx is canceled.
func (s *Sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.target.Sweep(); removed > 0 {
				logging.Debug().
					Str("cache", s.target.Name()).
					Int("removed", removed).
					Msg("Swept expired cache entries")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *Sweeper) String() string {
	return "cache-sweeper:" + s.target.Name()
}
