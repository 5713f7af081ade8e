// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"net/http"
	"time"
)

// ProviderHealth is the per-provider part of the health answer.
type ProviderHealth struct {
	Configured bool   `json:"configured"`
	Breaker    string `json:"breaker"`
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version"`
	Uptime    float64                   `json:"uptime"`
	Caches    int                       `json:"caches"`
	Providers map[string]ProviderHealth `json:"providers"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Health handles health check requests
//
// @Summary Get service health status
// @Description Returns provider configuration, circuit breaker states, cache count and uptime. The status is "degraded" while any breaker is open.
// @Tags Core
// @Produce json
// @Success 200 {object} HealthStatus "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	providers := make(map[string]ProviderHealth, len(h.providers))
	for name, p := range h.providers {
		ph := ProviderHealth{Configured: p.Configured(), Breaker: p.BreakerState()}
		if ph.Breaker == "open" {
			status = "degraded"
		}
		providers[name] = ph
	}

	respondJSON(w, http.StatusOK, HealthStatus{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Caches:    len(h.registry.Names()),
		Providers: providers,
		Timestamp: time.Now().UTC(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// The service is ready when at least one places source is configured,
// since nearby search needs either the model or Google.
//
// @Summary Kubernetes readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} map[string]interface{} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := false
	for _, name := range []string{"llm", "google"} {
		if p, ok := h.providers[name]; ok && p.Configured() {
			ready = true
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, map[string]interface{}{
		"ready": ready,
	})
}
