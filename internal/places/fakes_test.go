// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/llm"
)

// fakeLLM answers every completion with reply, parsed the same way the real
// client parses model output.
type fakeLLM struct {
	configured bool
	reply      string
	err        error
	usage      llm.Usage
	gate       chan struct{} // when set, calls block until it is closed

	calls    atomic.Int32
	mu       sync.Mutex
	features []string
}

func (f *fakeLLM) Configured() bool { return f.configured }

func (f *fakeLLM) CompleteInto(ctx context.Context, feature string, _ []llm.Message, out interface{}) (llm.Usage, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.features = append(f.features, feature)
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return llm.Usage{}, ctx.Err()
		}
	}
	if f.err != nil {
		return f.usage, f.err
	}
	if _, err := llm.ParseInto(f.reply, out); err != nil {
		return f.usage, err
	}
	return f.usage, nil
}

// fakeProvider stands in for Google.
type fakeProvider struct {
	mu          sync.Mutex
	nearby      []Place
	text        []Place
	geocode     []GeocodeEntry
	err         error
	lastNearby  NearbyQuery
	lastText    TextQuery
	lastReverse [2]float64
	calls       int
}

func (f *fakeProvider) record() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) NearbySearch(_ context.Context, q NearbyQuery) ([]Place, error) {
	f.record()
	f.lastNearby = q
	return f.nearby, f.err
}

func (f *fakeProvider) TextSearch(_ context.Context, q TextQuery) ([]Place, error) {
	f.record()
	f.lastText = q
	return f.text, f.err
}

func (f *fakeProvider) Geocode(_ context.Context, _ string) ([]GeocodeEntry, error) {
	f.record()
	return f.geocode, f.err
}

func (f *fakeProvider) ReverseGeocode(_ context.Context, lat, lng float64) ([]GeocodeEntry, error) {
	f.record()
	f.lastReverse = [2]float64{lat, lng}
	return f.geocode, f.err
}

// fakeClock is a manually advanced clock shared by a cache and a service.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache[V any](name string, ttl time.Duration, clock *fakeClock) *cache.Cache[V] {
	opts := cache.Options{Name: name, TTL: ttl}
	if clock != nil {
		opts.Clock = clock.Now
	}
	return cache.New[V](opts)
}
