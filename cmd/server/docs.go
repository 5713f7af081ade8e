// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package main provides the TravelBuddy HTTP server
//
// @title TravelBuddy API
// @version 1.0
// @description Places, enrichment and travel news for the TravelBuddy planner.
// @description
// @description Every upstream call (Google Places, the LLM, NewsAPI) sits behind an
// @description in-process TTL cache. Identical requests inside the TTL window are
// @description answered from memory without contacting the provider.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on /api.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "error": "VALIDATION_ERROR",
// @description   "message": "lat must be a valid latitude"
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/travelbuddy/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey AdminSecret
// @in header
// @name X-Admin-Secret
// @description Shared admin secret (ADMIN_SECRET). "Authorization: Bearer <secret>" is also accepted.
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Places
// @tag.description AI nearby recommendations, text search and geocoding
//
// @tag.name Enrichment
// @tag.description LLM-generated place descriptions with fallback content
//
// @tag.name News
// @tag.description Travel news for a destination
//
// @tag.name Admin
// @tag.description Cache inspection and clearing (requires the admin secret)
package main
