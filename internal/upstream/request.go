// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Request describes one outbound call. Build it with NewRequest and the
// chainable setters; the first setter error is reported when it is sent.
type Request struct {
	method  string
	baseURL string
	path    string
	params  url.Values
	headers http.Header
	body    []byte
	err     error
}

// NewRequest creates a GET request for baseURL + path.
func NewRequest(baseURL, path string) *Request {
	return &Request{
		method:  http.MethodGet,
		baseURL: baseURL,
		path:    path,
		params:  url.Values{},
		headers: http.Header{},
	}
}

// Method overrides the HTTP method.
func (r *Request) Method(method string) *Request {
	r.method = method
	return r
}

// Param adds a query parameter. Empty values are skipped.
func (r *Request) Param(key, value string) *Request {
	if value != "" {
		r.params.Set(key, value)
	}
	return r
}

// IntParam adds an integer query parameter (only if > 0).
func (r *Request) IntParam(key string, value int) *Request {
	if value > 0 {
		r.params.Set(key, strconv.Itoa(value))
	}
	return r
}

// FloatParam adds a float query parameter with the shortest exact form.
func (r *Request) FloatParam(key string, value float64) *Request {
	r.params.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
	return r
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// JSON encodes body as the request payload. A GET request becomes a POST.
func (r *Request) JSON(body interface{}) *Request {
	data, err := json.Marshal(body)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("encode request body: %w", err)
		}
		return r
	}
	r.body = data
	if r.method == http.MethodGet {
		r.method = http.MethodPost
	}
	r.headers.Set("Content-Type", "application/json")
	return r
}

// URL returns the full request URL including the query string.
func (r *Request) URL() string {
	u := strings.TrimRight(r.baseURL, "/") + r.path
	if len(r.params) == 0 {
		return u
	}
	return u + "?" + r.params.Encode()
}

// build creates the *http.Request bound to ctx.
func (r *Request) build(ctx context.Context) (*http.Request, error) {
	if r.err != nil {
		return nil, r.err
	}

	var body io.Reader = http.NoBody
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	for k, vs := range r.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}
