// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/travelbuddy/internal/metrics"
)

const (
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 10 * time.Second

	// maxErrorBodySize caps how much of a failed response is kept.
	maxErrorBodySize = 64 * 1024

	// maxResponseSize caps successful response bodies.
	maxResponseSize = 10 * 1024 * 1024
)

// Config configures a Client for one provider.
type Config struct {
	// Name labels metrics, logs and errors ("google", "llm", "newsapi").
	Name string
	// Timeout for each call. Zero uses DefaultTimeout.
	Timeout time.Duration
	// RequestsPerMinute enables a token-bucket limiter when > 0.
	RequestsPerMinute int
	// Burst is the limiter bucket size. Zero uses 1.
	Burst int
	// Breaker tunes the circuit breaker. Zero fields take defaults.
	Breaker BreakerConfig
	// HTTPClient overrides the transport; its Timeout is replaced.
	HTTPClient *http.Client
}

// Client sends requests to one provider through a limiter and a breaker.
type Client struct {
	name    string
	http    *http.Client
	breaker *Breaker
	limiter *rate.Limiter
}

// NewClient creates a client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.Name == "" {
		cfg.Name = "upstream"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	}
	hc.Timeout = cfg.Timeout

	c := &Client{
		name:    cfg.Name,
		http:    hc,
		breaker: NewBreaker(cfg.Name, cfg.Breaker),
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string { return c.name }

// BreakerState returns the current circuit state.
func (c *Client) BreakerState() string { return c.breaker.State() }

// Do sends req and decodes a 2xx JSON body into T.
//
// Errors are one of: ErrRateLimited, ErrCircuitOpen (both wrapped),
// *StatusError, *TransportError, or a decode error.
func Do[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var result T

	body, err := c.Send(ctx, req)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordUpstream(c.name, "decode_error", 0)
		return result, fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return result, nil
}

// Send performs req and returns the raw 2xx body.
func (c *Client) Send(ctx context.Context, req *Request) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, req)
	})
	duration := time.Since(start)

	var se *StatusError
	switch {
	case err == nil:
		metrics.RecordUpstream(c.name, "success", duration)
	case errors.Is(err, ErrCircuitOpen):
		metrics.RecordUpstream(c.name, "rejected", 0)
	case errors.As(err, &se):
		metrics.RecordUpstream(c.name, "http_error", duration)
	default:
		metrics.RecordUpstream(c.name, "network_error", duration)
	}
	return body, err
}

// wait blocks on the limiter when one is configured.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if c.limiter.Allow() {
		return nil
	}
	metrics.UpstreamRateLimitWaits.WithLabelValues(c.name).Inc()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, c.name, err)
	}
	return nil
}

// roundTrip executes one HTTP exchange.
func (c *Client) roundTrip(ctx context.Context, r *Request) ([]byte, error) {
	req, err := r.build(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &TransportError{Provider: c.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Provider: c.name, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
