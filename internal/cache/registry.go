// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes the caches of one process by name for the admin API.
// It holds no entries itself; each cache stays owned by the service it was
// injected into.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]Inspector
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]Inspector)}
}

// Register adds c. Names must be unique.
func (r *Registry) Register(c Inspector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.caches[name]; exists {
		return fmt.Errorf("cache %q already registered", name)
	}
	r.caches[name] = c
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate is a bug.
func (r *Registry) MustRegister(caches ...Inspector) {
	for _, c := range caches {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Get returns the cache registered under name.
func (r *Registry) Get(name string) (Inspector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[name]
	return c, ok
}

// All returns every registered cache sorted by name.
func (r *Registry) All() []Inspector {
	r.mu.RLock()
	out := make([]Inspector, 0, len(r.caches))
	for _, c := range r.caches {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name()
	}
	return names
}

// ClearAll clears every registered cache and returns how many were cleared.
func (r *Registry) ClearAll() int {
	all := r.All()
	for _, c := range all {
		c.Clear()
	}
	return len(all)
}
