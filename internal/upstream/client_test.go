// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/travelbuddy/internal/metrics"
)

type pingResponse struct {
	Status string `json:"status"`
	Echo   string `json:"echo"`
}

func TestDo_DecodesSuccessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ping" {
			t.Errorf("path = %q, want /v1/ping", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "colombo" {
			t.Errorf("q = %q, want colombo", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "k1" {
			t.Errorf("X-Api-Key = %q, want k1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","echo":"colombo"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-success"})
	req := NewRequest(srv.URL, "/v1/ping").Param("q", "colombo").Header("X-Api-Key", "k1")

	got, err := Do[pingResponse](context.Background(), c, req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got.Status != "OK" || got.Echo != "colombo" {
		t.Errorf("Do() = %+v", got)
	}
	if v := testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-success", "success")); v != 1 {
		t.Errorf("success counter = %v, want 1", v)
	}
}

func TestDo_PostsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(pingResponse{Status: "OK", Echo: in["msg"]})
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-post"})
	got, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/echo").JSON(map[string]string{"msg": "hi"}))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got.Echo != "hi" {
		t.Errorf("Echo = %q, want hi", got.Echo)
	}
}

func TestDo_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-status"})
	_, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
	if !strings.Contains(se.Body, "bad key") {
		t.Errorf("Body = %q", se.Body)
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable() = false for a status error")
	}
}

func TestDo_ErrorBodyIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBodySize*2)))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-truncate"})
	_, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if !strings.HasSuffix(se.Body, "(truncated)") {
		t.Error("expected truncation marker")
	}
	if len(se.Body) > maxErrorBodySize+32 {
		t.Errorf("Body length = %d", len(se.Body))
	}
}

func TestDo_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-decode"})
	_, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDo_TransportErrorHidesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{Name: "test-transport"})
	_, err := Do[pingResponse](context.Background(), c, NewRequest(addr, "/").Param("key", "super-secret"))

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Errorf("error leaks query credentials: %v", err)
	}
}

func TestDo_CircuitOpensOnConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-breaker-consecutive"})
	for i := 0; i < 5; i++ {
		_, _ = Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))
	}
	if c.BreakerState() != "open" {
		t.Fatalf("breaker state = %s, want open", c.BreakerState())
	}

	_, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if hits.Load() != 5 {
		t.Errorf("server hits = %d, want 5", hits.Load())
	}
	if v := testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-breaker-consecutive", "rejected")); v != 1 {
		t.Errorf("rejected counter = %v, want 1", v)
	}
}

func TestDo_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-breaker-4xx"})
	for i := 0; i < 12; i++ {
		_, _ = Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/"))
	}
	if c.BreakerState() != "closed" {
		t.Errorf("breaker state = %s, want closed", c.BreakerState())
	}
}

func TestDo_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "test-limiter", RequestsPerMinute: 1, Burst: 1})
	if _, err := Do[pingResponse](context.Background(), c, NewRequest(srv.URL, "/")); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := Do[pingResponse](ctx, c, NewRequest(srv.URL, "/"))
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestNewClient_Timeout(t *testing.T) {
	c := NewClient(Config{})
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if c.Name() != "upstream" {
		t.Errorf("Name() = %q", c.Name())
	}

	base := &http.Client{Timeout: time.Hour}
	c = NewClient(Config{Name: "x", Timeout: time.Second, HTTPClient: base})
	if c.http.Timeout != time.Second {
		t.Errorf("Timeout = %v, want 1s", c.http.Timeout)
	}
	if base.Timeout != time.Hour {
		t.Error("NewClient mutated the supplied http.Client")
	}
}

func TestReadBodyForError(t *testing.T) {
	got := readBodyForError(io.NopCloser(strings.NewReader("short")))
	if string(got) != "short" {
		t.Errorf("readBodyForError() = %q", got)
	}
}
