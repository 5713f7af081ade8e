// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package metrics defines the Prometheus collectors for TravelBuddy.
//
// Collectors are registered with the default registry through promauto and
// exposed on /metrics by the API router. Groups:
//
//   - api_*: request counts, latency and in-flight requests
//   - cache_*: hits, misses, evictions, expirations and loads per named cache
//   - upstream_*: calls to Google Places, the LLM endpoint and NewsAPI
//   - circuit_breaker_*: breaker state per upstream provider
//   - llm_* and fallback_responses_total: token spend and degraded responses
//
// Example queries:
//
//	# Hit rate of the enrichment cache
//	rate(cache_hits_total{cache="enrichment"}[5m]) /
//	  (rate(cache_hits_total{cache="enrichment"}[5m]) + rate(cache_misses_total{cache="enrichment"}[5m]))
//
//	# Requests deduplicated by single-flight
//	rate(cache_loads_total{result="shared"}[5m])
package metrics
