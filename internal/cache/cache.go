// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/metrics"
)

// Policy selects which entry is evicted when a bounded cache overflows.
type Policy string

const (
	// PolicyFIFO evicts the oldest insertion first. Reads do not reorder.
	PolicyFIFO Policy = "fifo"

	// PolicyLRU evicts the least recently read entry first.
	PolicyLRU Policy = "lru"
)

// ParsePolicy converts a configuration string to a Policy.
// An empty string selects PolicyFIFO.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFIFO:
		return PolicyFIFO, nil
	case PolicyLRU:
		return PolicyLRU, nil
	default:
		return "", fmt.Errorf("unknown eviction policy %q (expected fifo or lru)", s)
	}
}

// Options configures a Cache.
type Options struct {
	// Name labels the cache in metrics, logs and the admin registry.
	Name string

	// TTL is the default entry lifetime. Must be > 0.
	TTL time.Duration

	// MaxEntries bounds the cache size. 0 means unbounded.
	MaxEntries int

	// Policy picks the eviction order for bounded caches. Default: PolicyFIFO.
	Policy Policy

	// SweepInterval is how often a Sweeper removes expired entries. 0 disables it.
	SweepInterval time.Duration

	// Clock overrides time.Now, for tests.
	Clock func() time.Time

	// Store enables write-through persistence and Restore. Optional.
	Store Store
}

// Entry is a single cached value.
//
// An entry is valid iff now - StoredAt < TTL. Entries are never mutated in
// place; Set replaces the whole entry.
type Entry[V any] struct {
	Key      string
	Value    V
	StoredAt time.Time
	TTL      time.Duration
}

// Valid reports whether the entry is still fresh at now.
func (e *Entry[V]) Valid(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}

// node is an element of the insertion-order list.
type node[V any] struct {
	entry Entry[V]
	prev  *node[V]
	next  *node[V]
}

// Cache is a thread-safe TTL cache with an optional size bound.
//
// Lookups are O(1) through a map. A doubly-linked list with head and tail
// sentinels keeps insertion order: head.next is the newest entry and
// tail.prev the next eviction candidate.
type Cache[V any] struct {
	mu sync.Mutex

	name          string
	ttl           time.Duration
	maxEntries    int
	policy        Policy
	sweepInterval time.Duration
	now           func() time.Time
	store         Store

	// storeMu orders write-through with Clear and Delete, so a Set racing a
	// Clear cannot write its entry back after the store was emptied.
	storeMu sync.Mutex

	items map[string]*node[V]
	head  *node[V]
	tail  *node[V]

	group singleflight.Group

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
	loads       atomic.Int64
	sharedLoads atomic.Int64
	loadErrors  atomic.Int64
	lastSweep   atomic.Int64 // unix nanos, 0 = never
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Name        string        `json:"name"`
	Size        int           `json:"size"`
	TTL         time.Duration `json:"-"`
	TTLMs       int64         `json:"ttl_ms"`
	MaxEntries  int           `json:"max_entries"`
	Policy      Policy        `json:"policy"`
	Hits        int64         `json:"hits"`
	Misses      int64         `json:"misses"`
	HitRate     float64       `json:"hit_rate"`
	Evictions   int64         `json:"evictions"`
	Expirations int64         `json:"expirations"`
	Loads       int64         `json:"loads"`
	SharedLoads int64         `json:"shared_loads"`
	LoadErrors  int64         `json:"load_errors"`
	LastSweep   *time.Time    `json:"last_sweep,omitempty"`
}

// New creates a cache. It panics on a non-positive TTL or an unknown policy,
// both of which are programming errors caught by config validation first.
func New[V any](opts Options) *Cache[V] {
	if opts.TTL <= 0 {
		panic(fmt.Sprintf("cache %q: TTL must be positive, got %v", opts.Name, opts.TTL))
	}
	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		panic(fmt.Sprintf("cache %q: %v", opts.Name, err))
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxEntries < 0 {
		opts.MaxEntries = 0
	}

	c := &Cache[V]{
		name:          opts.Name,
		ttl:           opts.TTL,
		maxEntries:    opts.MaxEntries,
		policy:        policy,
		sweepInterval: opts.SweepInterval,
		now:           opts.Clock,
		store:         opts.Store,
		items:         make(map[string]*node[V]),
		head:          &node[V]{},
		tail:          &node[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Name returns the cache name.
func (c *Cache[V]) Name() string { return c.name }

// TTL returns the default entry lifetime.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// SweepInterval returns the configured sweep interval (0 = no sweeper).
func (c *Cache[V]) SweepInterval() time.Duration { return c.sweepInterval }

// Get returns the value for key if present and valid. An expired entry found
// here is removed and the lookup counts as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	n, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		c.recordMiss()
		var zero V
		return zero, false
	}

	if !n.entry.Valid(c.now()) {
		c.unlink(n)
		size := len(c.items)
		c.mu.Unlock()

		c.expirations.Add(1)
		metrics.CacheExpirations.WithLabelValues(c.name, "read").Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
		c.recordMiss()
		var zero V
		return zero, false
	}

	if c.policy == PolicyLRU {
		c.moveToFront(n)
	}
	v := n.entry.Value
	c.mu.Unlock()

	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return v, true
}

// Peek returns the entry for key without touching counters or order.
// Expired entries are reported as absent but not removed.
func (c *Cache[V]) Peek(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok || !n.entry.Valid(c.now()) {
		return Entry[V]{}, false
	}
	return n.entry, true
}

// Set inserts or overwrites key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL inserts or overwrites key with a per-entry TTL. A non-positive
// ttl falls back to the cache default. An overwrite resets StoredAt and
// counts as a fresh insertion for FIFO ordering.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	entry := Entry[V]{Key: key, Value: value, StoredAt: c.now(), TTL: ttl}
	if c.store != nil {
		c.storeMu.Lock()
		defer c.storeMu.Unlock()
	}
	evicted := c.insert(entry)
	c.persist(entry, evicted)
}

// insert stores entry and applies the size bound. Returns evicted keys.
func (c *Cache[V]) insert(entry Entry[V]) []string {
	c.mu.Lock()
	if n, ok := c.items[entry.Key]; ok {
		n.entry = entry
		c.moveToFront(n)
	} else {
		n := &node[V]{entry: entry}
		c.items[entry.Key] = n
		c.addToFront(n)
	}

	var evicted []string
	for c.maxEntries > 0 && len(c.items) > c.maxEntries {
		oldest := c.tail.prev
		if oldest == c.head {
			break
		}
		c.unlink(oldest)
		evicted = append(evicted, oldest.entry.Key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if len(evicted) > 0 {
		c.evictions.Add(int64(len(evicted)))
		metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(len(evicted)))
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
	return evicted
}

// Delete removes key. Returns true if it was present.
func (c *Cache[V]) Delete(key string) bool {
	if c.store != nil {
		c.storeMu.Lock()
		defer c.storeMu.Unlock()
	}
	c.mu.Lock()
	n, ok := c.items[key]
	if ok {
		c.unlink(n)
	}
	size := len(c.items)
	c.mu.Unlock()

	if !ok {
		return false
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
	if c.store != nil {
		if err := c.store.Delete(key); err != nil {
			c.storeFailed("delete", err)
		}
	}
	return true
}

// Clear removes every entry, including persisted ones. Counters are kept.
func (c *Cache[V]) Clear() {
	if c.store != nil {
		c.storeMu.Lock()
		defer c.storeMu.Unlock()
	}
	c.mu.Lock()
	removed := len(c.items)
	c.items = make(map[string]*node[V])
	c.head.next = c.tail
	c.tail.prev = c.head
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(0)
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.storeFailed("clear", err)
		}
	}
	logging.Info().Str("cache", c.name).Int("removed", removed).Msg("Cache cleared")
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns stored keys in eviction order: the next entry to be evicted
// comes first. Under FIFO that is insertion order; under LRU it runs from
// least to most recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for n := c.tail.prev; n != c.head; n = n.prev {
		keys = append(keys, n.entry.Key)
	}
	return keys
}

// Sweep removes every expired entry and returns how many were removed.
func (c *Cache[V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for n := c.tail.prev; n != c.head; {
		prev := n.prev
		if !n.entry.Valid(now) {
			c.unlink(n)
			removed++
		}
		n = prev
	}
	size := len(c.items)
	c.mu.Unlock()

	c.lastSweep.Store(now.UnixNano())
	if removed > 0 {
		c.expirations.Add(int64(removed))
		metrics.CacheExpirations.WithLabelValues(c.name, "sweep").Add(float64(removed))
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
	return removed
}

// HitRate returns hits / (hits + misses) as a percentage.
func (c *Cache[V]) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	s := Stats{
		Name:        c.name,
		Size:        c.Len(),
		TTL:         c.ttl,
		TTLMs:       c.ttl.Milliseconds(),
		MaxEntries:  c.maxEntries,
		Policy:      c.policy,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		HitRate:     c.HitRate(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
		Loads:       c.loads.Load(),
		SharedLoads: c.sharedLoads.Load(),
		LoadErrors:  c.loadErrors.Load(),
	}
	if ns := c.lastSweep.Load(); ns != 0 {
		t := time.Unix(0, ns)
		s.LastSweep = &t
	}
	return s
}

// Restore loads non-expired entries from the backing store, oldest first, so
// that FIFO order survives a restart. Returns the number of entries restored.
func (c *Cache[V]) Restore(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	stored, err := c.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load cache %q from store: %w", c.name, err)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].StoredAt.Before(stored[j].StoredAt) })

	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	now := c.now()
	restored := 0
	for _, se := range stored {
		if now.Sub(se.StoredAt) >= se.TTL {
			continue
		}
		var v V
		if err := json.Unmarshal(se.Value, &v); err != nil {
			logging.Warn().Err(err).Str("cache", c.name).Str("key", se.Key).Msg("Skipping undecodable stored entry")
			continue
		}
		evicted := c.insert(Entry[V]{Key: se.Key, Value: v, StoredAt: se.StoredAt, TTL: se.TTL})
		c.deleteFromStore(evicted)
		restored++
	}
	return restored, nil
}

func (c *Cache[V]) persist(entry Entry[V], evicted []string) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(entry.Value)
	if err != nil {
		c.storeFailed("encode", err)
		return
	}
	if err := c.store.Save(StoredEntry{Key: entry.Key, Value: data, StoredAt: entry.StoredAt, TTL: entry.TTL}); err != nil {
		c.storeFailed("save", err)
	}
	c.deleteFromStore(evicted)
}

func (c *Cache[V]) deleteFromStore(keys []string) {
	if c.store == nil {
		return
	}
	for _, k := range keys {
		if err := c.store.Delete(k); err != nil {
			c.storeFailed("delete", err)
		}
	}
}

func (c *Cache[V]) storeFailed(op string, err error) {
	metrics.CacheStoreErrors.WithLabelValues(c.name, op).Inc()
	logging.Warn().Err(err).Str("cache", c.name).Str("operation", op).Msg("Cache store operation failed")
}

func (c *Cache[V]) recordMiss() {
	c.misses.Add(1)
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

// addToFront must be called with mu held.
func (c *Cache[V]) addToFront(n *node[V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

// moveToFront must be called with mu held.
func (c *Cache[V]) moveToFront(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	c.addToFront(n)
}

// unlink removes n from both the list and the map. mu must be held.
func (c *Cache[V]) unlink(n *node[V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	delete(c.items, n.entry.Key)
}
