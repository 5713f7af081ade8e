// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/places"
)

// ProviderStatus is implemented by the outbound provider clients.
type ProviderStatus interface {
	Configured() bool
	BreakerState() string
}

// Deps holds the services behind the HTTP handlers.
type Deps struct {
	Config     *config.Config
	Nearby     *places.AINearbyService
	Enrichment *places.EnrichmentService
	Search     *places.SearchService
	News       *news.Service
	Registry   *cache.Registry

	// Providers reported by /api/health, keyed by provider name.
	Providers map[string]ProviderStatus

	Version string
}

// Handler handles all HTTP API requests
type Handler struct {
	config     *config.Config
	nearby     *places.AINearbyService
	enrichment *places.EnrichmentService
	search     *places.SearchService
	news       *news.Service
	registry   *cache.Registry
	providers  map[string]ProviderStatus
	audit      *logging.AuditLogger
	version    string
	startTime  time.Time
}

// NewHandler creates a new Handler instance
func NewHandler(deps Deps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	registry := deps.Registry
	if registry == nil {
		registry = cache.NewRegistry()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		config:     cfg,
		nearby:     deps.Nearby,
		enrichment: deps.Enrichment,
		search:     deps.Search,
		news:       deps.News,
		registry:   registry,
		providers:  deps.Providers,
		audit:      logging.NewAuditLogger(),
		version:    version,
		startTime:  time.Now(),
	}
}
