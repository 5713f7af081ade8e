// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCircuitOpen is returned without contacting the provider while its
	// circuit breaker is open or saturated in half-open state.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRateLimited is returned when the outbound limiter cannot grant a
	// token before the caller's deadline.
	ErrRateLimited = errors.New("outbound rate limit exceeded")
)

// StatusError reports a non-2xx answer from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether the provider is likely to succeed on a later
// attempt. Client errors other than 429 are the caller's fault and do not
// count against the provider's health.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// IsUnavailable reports whether err means the provider could not produce an
// answer: open circuit, rate limit, transport failure or non-2xx status.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	var te *TransportError
	return errors.Is(err, ErrCircuitOpen) ||
		errors.Is(err, ErrRateLimited) ||
		errors.As(err, &se) ||
		errors.As(err, &te)
}

// TransportError wraps a network-level failure. The request URL is not part
// of the message because some providers carry credentials in the query.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
