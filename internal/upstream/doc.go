// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package upstream is the shared outbound HTTP plumbing for the external
providers (Google Places, the LLM endpoint and NewsAPI).

Every call goes through the same pipeline:

	limiter (optional) -> circuit breaker -> http.Client (timeout) -> status check -> decode

Usage:

	client := upstream.NewClient(upstream.Config{Name: "google", Timeout: 10 * time.Second})
	req := upstream.NewRequest(baseURL, "/maps/api/geocode/json").
		Param("address", address).
		Param("key", apiKey)
	resp, err := upstream.Do[geocodeResponse](ctx, client, req)

Error types:
  - *StatusError: the provider answered with a non-2xx status
  - *TransportError: the call never produced a response
  - ErrCircuitOpen: the breaker rejected the call
  - ErrRateLimited: the limiter could not grant a token before the deadline

The breaker opens after 60% failures over at least 10 requests or after 5
consecutive failures, and stays open for 30 seconds. Responses with a 4xx
status other than 429 count as successes for breaker purposes.
*/
package upstream
