// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package logging provides the zerolog-backed structured logger used by every
// TravelBuddy component.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("cache", "places_ai").Msg("Cache cleared")
//
// Request handlers log through the request context so that every line carries
// the request_id assigned by the HTTP middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Upstream call failed")
//
// # Admin Audit
//
// Administrative actions (cache clears, rejected admin calls) are written by
// AuditLogger with a fixed "audit" component so they can be filtered apart
// from request logs. Secrets are never logged; RedactSecret keeps a short
// prefix for correlation.
//
// # Suture Integration
//
// NewSlogLogger bridges zerolog to log/slog for sutureslog, which only accepts
// an *slog.Logger.
package logging
