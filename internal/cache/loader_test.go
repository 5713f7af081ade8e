// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrLoadMissThenHit(t *testing.T) {
	c, _ := newTestCache(t, Options{})
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "fetched", nil
	}

	v, res, err := c.GetOrLoad(ctx, "k", load)
	if err != nil || v != "fetched" || res.Hit {
		t.Fatalf("first call: v=%q res=%+v err=%v", v, res, err)
	}

	v, res, err = c.GetOrLoad(ctx, "k", load)
	if err != nil || v != "fetched" || !res.Hit {
		t.Fatalf("second call: v=%q res=%+v err=%v", v, res, err)
	}
	if calls != 1 {
		t.Errorf("Expected loader to run once, ran %d times", calls)
	}
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c, _ := newTestCache(t, Options{})
	ctx := context.Background()
	upstreamErr := errors.New("upstream unavailable")

	_, _, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "", upstreamErr
	})
	if !errors.Is(err, upstreamErr) {
		t.Fatalf("Expected upstream error, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("Expected failed load to store nothing")
	}
	if got := c.Stats().LoadErrors; got != 1 {
		t.Errorf("Expected 1 load error, got %d", got)
	}

	v, _, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "recovered", nil
	})
	if err != nil || v != "recovered" {
		t.Errorf("Expected retry to succeed, got %q %v", v, err)
	}
}

func TestGetOrLoadDeduplicatesConcurrentMisses(t *testing.T) {
	c, _ := newTestCache(t, Options{})
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	load := func(context.Context) (string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return "shared", nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrLoad(ctx, "same-key", load)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
			}
			results[i] = v
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond) // let the other callers join the flight
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("Expected exactly one upstream call, got %d", n)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("caller %d got %q", i, v)
		}
	}
}

func TestGetOrLoadTTL(t *testing.T) {
	c, clock := newTestCache(t, Options{TTL: 30 * 24 * time.Hour})
	ctx := context.Background()

	_, _, err := c.GetOrLoadTTL(ctx, "fallback", func(context.Context) (string, time.Duration, error) {
		return "degraded", 10 * time.Minute, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	e, ok := c.Peek("fallback")
	if !ok || e.TTL != 10*time.Minute {
		t.Fatalf("Expected entry with 10m TTL, got %+v %v", e, ok)
	}

	clock.Advance(11 * time.Minute)
	if _, ok := c.Get("fallback"); ok {
		t.Error("Expected short-lived entry to expire")
	}
}

func TestGetOrLoadCallerCancellation(t *testing.T) {
	c, _ := newTestCache(t, Options{})

	release := make(chan struct{})
	loaderCtxErr := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrLoad(ctx, "slow", func(lctx context.Context) (string, error) {
			<-release
			loaderCtxErr <- lctx.Err()
			return "late", nil
		})
		done <- err
	}()

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	close(release)
	if err := <-loaderCtxErr; err != nil {
		t.Errorf("Expected loader context to be detached from caller, got %v", err)
	}

	// The flight still completes and populates the cache.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if v, ok := c.Get("slow"); ok {
			if v != "late" {
				t.Errorf("Expected late, got %q", v)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected detached load to populate the cache")
}
