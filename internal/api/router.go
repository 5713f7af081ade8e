// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/travelbuddy/internal/middleware"
)

// Router wires the handler into a Chi route tree.
type Router struct {
	handler *Handler
	chiMW   *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	if mwConfig == nil {
		mwConfig = ChiMiddlewareConfigFrom(handler.config.Security)
	}
	return &Router{
		handler: handler,
		chiMW:   NewChiMiddleware(mwConfig),
	}
}

// chiMiddleware adapts a func(http.HandlerFunc) http.HandlerFunc middleware
// to Chi's func(http.Handler) http.Handler signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Request ID first so every later layer logs with it. Metrics and the
	// access log sit outside Recoverer so a recovered panic is still
	// recorded as a 500.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(router.chiMW.CORS())
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, codeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())

		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Route("/places", func(r chi.Router) {
			r.Get("/ai/nearby", h.AINearby)
			r.Get("/ai/cache/stats", h.AINearbyCacheStats)
			r.With(chiMiddleware(h.RequireAdmin)).Delete("/ai/cache", h.ClearAINearbyCache)

			r.Get("/search", h.PlacesSearch)
			r.Get("/geocode", h.Geocode)
			r.Get("/geocode/reverse", h.ReverseGeocode)
		})

		r.Route("/places-enrichment", func(r chi.Router) {
			r.Post("/enrich", h.EnrichPlace)
			r.Get("/metrics", h.EnrichmentMetrics)
			r.With(chiMiddleware(h.RequireAdmin)).Delete("/cache", h.ClearEnrichmentCache)
		})

		r.Get("/travel-news", h.TravelNews)

		r.Route("/admin", func(r chi.Router) {
			r.Use(chiMiddleware(h.RequireAdmin))
			r.Get("/caches", h.ListCaches)
			r.Delete("/caches", h.ClearCaches)
			r.Get("/caches/{name}", h.CacheStats)
			r.Delete("/caches/{name}", h.ClearCache)
		})
	})

	return r
}
