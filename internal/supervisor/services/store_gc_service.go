// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package services

import (
	"context"
	"time"

	"github.com/tomtom215/travelbuddy/internal/logging"
)

// GarbageCollector is implemented by *badgerstore.DB.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService periodically reclaims space in the persistent cache store.
// A failed run is logged and retried on the next tick; it never restarts
// the service.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
}

// NewStoreGCService creates the service. A non-positive interval defaults
// to 10 minutes.
func NewStoreGCService(store GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{store: store, interval: interval, discardRatio: 0.5}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(s.discardRatio); err != nil {
				logging.Warn().Err(err).Msg("Cache store GC failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *StoreGCService) String() string {
	return "cache-store-gc"
}
