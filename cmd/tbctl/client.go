// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/api"
)

const defaultTimeout = 10 * time.Second

type clientOptions struct {
	server  string
	secret  string
	timeout time.Duration
}

// adminClient calls the /api/admin routes.
type adminClient struct {
	base   *url.URL
	secret string
	http   *http.Client
}

func newAdminClient(opts *clientOptions) (*adminClient, error) {
	if opts.secret == "" {
		return nil, errors.New("admin secret is required (--admin-secret or ADMIN_SECRET)")
	}
	base, err := url.Parse(strings.TrimRight(opts.server, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", opts.server)
	}
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &adminClient{base: base, secret: opts.secret, http: &http.Client{Timeout: timeout}}, nil
}

// do sends a request to /api/admin/<elem...> and decodes a 2xx body into out. Error bodies
// are reported with the server's error code and message.
func (c *adminClient) do(ctx context.Context, method string, out interface{}, elem ...string) error {
	u := c.base.JoinPath(append([]string{"api", "admin"}, elem...)...)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(api.AdminSecretHeader, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr api.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *adminClient) listCaches(ctx context.Context) (api.CacheList, error) {
	var out api.CacheList
	err := c.do(ctx, http.MethodGet, &out, "caches")
	return out, err
}

func (c *adminClient) cacheStats(ctx context.Context, name string) (api.CacheDetail, error) {
	var out api.CacheDetail
	err := c.do(ctx, http.MethodGet, &out, "caches", name)
	return out, err
}

// clearCache empties one cache, or all of them when name is empty.
func (c *adminClient) clearCache(ctx context.Context, name string) (api.MessageResponse, error) {
	elem := []string{"caches"}
	if name != "" {
		elem = append(elem, name)
	}
	var out api.MessageResponse
	err := c.do(ctx, http.MethodDelete, &out, elem...)
	return out, err
}
