// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package api provides the HTTP surface of TravelBuddy.

Routes are served by a Chi router. Every handler validates its input
before touching a cache, delegates to a service in internal/places or
internal/news, and writes JSON.

# Routes

	GET    /api/health, /api/health/live, /api/health/ready
	GET    /api/places/ai/nearby
	GET    /api/places/ai/cache/stats
	DELETE /api/places/ai/cache                  (admin)
	POST   /api/places-enrichment/enrich
	GET    /api/places-enrichment/metrics
	DELETE /api/places-enrichment/cache          (admin)
	GET    /api/places/search
	GET    /api/places/geocode
	GET    /api/places/geocode/reverse
	GET    /api/travel-news
	GET    /api/admin/caches, /api/admin/caches/{name} (admin)
	DELETE /api/admin/caches, /api/admin/caches/{name} (admin)
	GET    /metrics

# Middleware

The global stack, outermost first: request ID, Prometheus instrumentation,
access log, RealIP, Recoverer, gzip compression, CORS (go-chi/cors), security
headers and per-IP rate limiting (go-chi/httprate) on /api.

# Errors

Every error body has the shape

	{"error": "VALIDATION_ERROR", "message": "lat is required"}

Validation failures answer 400 before any cache lookup. A provider failure
answers 502 EXTERNAL_SERVICE_FAILED, except for nearby search where
exhausting both the model and Google answers 500. Admin routes answer 403
while no admin secret is configured and 401 for a wrong secret.
*/
package api
