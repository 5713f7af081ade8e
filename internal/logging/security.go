// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuditEvent describes an administrative action against the service.
type AuditEvent struct {
	// Action is what was attempted, e.g. "cache.clear", "admin.auth".
	Action string
	// Target names the affected resource, e.g. a cache name or "all".
	Target string
	// IPAddress is the client address as seen after RealIP.
	IPAddress string
	// RequestID correlates the event with the request log line.
	RequestID string
	// Success is false when the action was rejected or failed.
	Success bool
	// Reason explains a rejection.
	Reason string
}

// AuditLogger writes admin audit events under the "audit" component.
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger on top of the global logger.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: WithComponent("audit")}
}

// NewAuditLoggerWithLogger creates an audit logger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLoggerWithLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With().Str("component", "audit").Logger()}
}

// Log writes the event. Rejections are logged at warn level.
func (l *AuditLogger) Log(ev AuditEvent) {
	event := l.logger.Info()
	if !ev.Success {
		event = l.logger.Warn()
	}
	event = event.
		Str("action", ev.Action).
		Str("target", SanitizeValue(ev.Target)).
		Str("ip", ev.IPAddress).
		Bool("success", ev.Success)
	if ev.RequestID != "" {
		event = event.Str("request_id", ev.RequestID)
	}
	if ev.Reason != "" {
		event = event.Str("reason", ev.Reason)
	}
	event.Msg("admin action")
}

// RedactSecret keeps the first four characters of a secret for correlation.
// Secrets of eight characters or fewer are fully masked.
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "[REDACTED]"
	}
	return secret[:4] + "...[REDACTED]"
}

// SanitizeValue replaces control characters so caller-supplied strings cannot
// forge log lines, and caps the length at 256 bytes.
func SanitizeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > 256 {
		out = out[:256] + "..."
	}
	return out
}
