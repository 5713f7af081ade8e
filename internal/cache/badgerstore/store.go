// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package badgerstore persists cache entries in BadgerDB so that long-lived
// caches (the 30-day enrichment cache in particular) survive restarts.
//
// One DB is shared by every cache; each cache writes under its own key
// prefix through a Store returned by DB.Namespace. Entry expiry is delegated
// to Badger's native TTL, so expired entries are never returned by Load.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/logging"
)

// Options configures the underlying BadgerDB.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write. Default: false
	SyncWrites bool
}

// DB wraps a BadgerDB handle shared by several cache namespaces.
type DB struct {
	db *badger.DB
}

// Open opens (or creates) the database.
func Open(opts Options) (*DB, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("badgerstore: path is required unless in-memory")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.SyncWrites = opts.SyncWrites

	// Badger's own logger is far too chatty for request-level caching.
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Msg("Cache store opened")
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// RunGC reclaims value log space until Badger reports nothing left to
// rewrite. It is a no-op for in-memory databases.
func (d *DB) RunGC(discardRatio float64) error {
	if d.db.Opts().InMemory {
		return nil
	}
	for {
		err := d.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger value log GC: %w", err)
		}
	}
}

// Namespace returns a Store that keeps its entries under "cache:<name>:".
func (d *DB) Namespace(name string) *Store {
	return &Store{db: d.db, prefix: []byte("cache:" + name + ":")}
}

// Store implements cache.Store for a single cache namespace.
type Store struct {
	db     *badger.DB
	prefix []byte
}

// record is the on-disk value format.
type record struct {
	StoredAt int64  `json:"stored_at"` // unix nanos
	TTL      int64  `json:"ttl"`       // nanos
	Value    []byte `json:"value"`
}

func (s *Store) key(k string) []byte {
	out := make([]byte, 0, len(s.prefix)+len(k))
	out = append(out, s.prefix...)
	return append(out, k...)
}

// Save writes the entry with a Badger TTL equal to its remaining lifetime.
// Entries that have already expired are not written.
func (s *Store) Save(entry cache.StoredEntry) error {
	remaining := entry.TTL - time.Since(entry.StoredAt)
	if remaining <= 0 {
		return nil
	}

	data, err := json.Marshal(record{
		StoredAt: entry.StoredAt.UnixNano(),
		TTL:      int64(entry.TTL),
		Value:    entry.Value,
	})
	if err != nil {
		return fmt.Errorf("marshal stored entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(s.key(entry.Key), data).WithTTL(remaining))
	})
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}
	return nil
}

// Load returns every live entry in the namespace.
func (s *Store) Load(ctx context.Context) ([]cache.StoredEntry, error) {
	var entries []cache.StoredEntry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			var rec record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Skipping corrupt cache store record")
				continue
			}

			entries = append(entries, cache.StoredEntry{
				Key:      string(item.Key()[len(s.prefix):]),
				Value:    rec.Value,
				StoredAt: time.Unix(0, rec.StoredAt),
				TTL:      time.Duration(rec.TTL),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate cache store: %w", err)
	}
	return entries, nil
}

// Delete removes one entry.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete from BadgerDB: %w", err)
	}
	return nil
}

// Clear deletes every entry in the namespace.
func (s *Store) Clear() error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan cache namespace: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("delete cache namespace entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush cache namespace delete: %w", err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
