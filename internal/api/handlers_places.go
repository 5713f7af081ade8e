// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/validation"
)

// NearbyCacheStats is the body of GET /api/places/ai/cache/stats.
type NearbyCacheStats struct {
	Size    int      `json:"size"`
	TTLMs   int64    `json:"ttl_ms"`
	Keys    []string `json:"keys"`
	Hits    int64    `json:"hits"`
	Misses  int64    `json:"misses"`
	HitRate float64  `json:"hit_rate"`
}

// AINearby handles AI-recommended nearby places.
//
// @Summary Recommend places near a point
// @Description Asks the language model for places around lat/lng and falls back to Google Nearby Search. Results are sorted by distance and cached for one hour per distinct query.
// @Tags Places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param category query string false "Category, e.g. restaurants" default(attractions)
// @Param limit query int false "Maximum results (max 20)" default(10)
// @Param userType query string false "Traveler profile, e.g. family"
// @Param vibe query string false "Desired atmosphere, e.g. relaxed"
// @Param language query string false "Response language" default(en)
// @Param radius query int false "Search radius in meters (max 50000)" default(5000)
// @Param preferences query string false "Extra preferences as a JSON object"
// @Success 200 {object} places.NearbyResult
// @Failure 400 {object} ErrorResponse "Invalid coordinates or parameters"
// @Failure 500 {object} ErrorResponse "Neither the model nor Google answered"
// @Router /places/ai/nearby [get]
func (h *Handler) AINearby(w http.ResponseWriter, r *http.Request) {
	params := nearbyParamsFrom(r.URL.Query())
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidation(w, r, verr)
		return
	}
	req, err := params.Request()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	res, err := h.nearby.Nearby(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// AINearbyCacheStats reports the nearby cache contents.
//
// @Summary Nearby cache statistics
// @Tags Places
// @Produce json
// @Success 200 {object} NearbyCacheStats
// @Router /places/ai/cache/stats [get]
func (h *Handler) AINearbyCacheStats(w http.ResponseWriter, r *http.Request) {
	c := h.nearby.Cache()
	stats := c.Stats()
	respondJSON(w, http.StatusOK, NearbyCacheStats{
		Size:    stats.Size,
		TTLMs:   stats.TTLMs,
		Keys:    c.Keys(),
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		HitRate: stats.HitRate,
	})
}

// ClearAINearbyCache empties the nearby cache.
//
// @Summary Clear the nearby cache
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /places/ai/cache [delete]
func (h *Handler) ClearAINearbyCache(w http.ResponseWriter, r *http.Request) {
	h.clearCache(w, r, h.nearby.Cache())
}

// PlacesSearch handles hybrid text search.
//
// @Summary Search places by text
// @Description Google Text Search, optionally biased to lat/lng. With a location every result carries distance_km.
// @Tags Places
// @Produce json
// @Param q query string true "Search text"
// @Param lat query number false "Latitude (requires lng)"
// @Param lng query number false "Longitude (requires lat)"
// @Param radius query int false "Bias radius in meters"
// @Param language query string false "Response language" default(en)
// @Success 200 {object} places.SearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /places/search [get]
func (h *Handler) PlacesSearch(w http.ResponseWriter, r *http.Request) {
	params := searchParamsFrom(r.URL.Query())
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	res, err := h.search.Search(r.Context(), params.Request())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Geocode resolves an address.
//
// @Summary Geocode an address
// @Tags Places
// @Produce json
// @Param address query string true "Address"
// @Success 200 {object} places.GeocodeResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /places/geocode [get]
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	params := GeocodeParams{Address: r.URL.Query().Get("address")}
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	res, err := h.search.Geocode(r.Context(), params.Address)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// ReverseGeocode resolves a coordinate to addresses.
//
// @Summary Reverse geocode a coordinate
// @Tags Places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Success 200 {object} places.GeocodeResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /places/geocode/reverse [get]
func (h *Handler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ReverseGeocodeParams{Lat: q.Get("lat"), Lng: q.Get("lng")}
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	res, err := h.search.ReverseGeocode(r.Context(), parseFloat(params.Lat), parseFloat(params.Lng))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// clearCache is shared by the per-feature DELETE routes.
func (h *Handler) clearCache(w http.ResponseWriter, r *http.Request, c cache.Inspector) {
	n := c.Stats().Size
	c.Clear()
	h.auditAdmin(r, "cache.clear", c.Name(), true, "")
	respondJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %d entries from %s cache", n, c.Name()),
	})
}
