// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/validation"
)

// maxEnrichBody bounds the enrichment request body.
const maxEnrichBody = 64 << 10

// EnrichPlace generates or returns cached descriptive content for a place.
//
// @Summary Enrich a place
// @Description Returns model-generated content for the place, cached for 30 days. When the model is unavailable a fallback built from the place fields is returned with fallback=true.
// @Tags Enrichment
// @Accept json
// @Produce json
// @Param request body EnrichRequest true "Place and language"
// @Success 200 {object} DataResponse{data=places.EnrichmentResult}
// @Failure 400 {object} ErrorResponse "Missing place, or place without place_id and name"
// @Router /places-enrichment/enrich [post]
func (h *Handler) EnrichPlace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEnrichBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, codeValidation, "Request body too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, codeValidation, "Could not read request body", err)
		return
	}

	var req EnrichRequest
	if err := json.Unmarshal(data, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "Request body must be a JSON object", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	res, err := h.enrichment.Enrich(r.Context(), *req.Place, req.Language)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Success: true, Data: res})
}

// EnrichmentMetrics reports cache effectiveness and model cost.
//
// @Summary Enrichment metrics
// @Tags Enrichment
// @Produce json
// @Success 200 {object} DataResponse{data=places.EnrichmentMetrics}
// @Router /places-enrichment/metrics [get]
func (h *Handler) EnrichmentMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Success: true, Data: h.enrichment.Metrics()})
}

// ClearEnrichmentCache empties the enrichment cache.
//
// @Summary Clear the enrichment cache
// @Tags Admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /places-enrichment/cache [delete]
func (h *Handler) ClearEnrichmentCache(w http.ResponseWriter, r *http.Request) {
	h.clearCache(w, r, h.enrichment.Cache())
}
