// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"context"
	"errors"
	"hash/fnv"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/places"
	"github.com/tomtom215/travelbuddy/internal/upstream"
	"github.com/tomtom215/travelbuddy/internal/validation"
)

// Error codes carried in the "error" field of error bodies.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeExternalService  = "EXTERNAL_SERVICE_FAILED"
	codePlacesFailed     = "PLACES_UNAVAILABLE"
	codeNotConfigured    = "SERVICE_NOT_CONFIGURED"
	codeTimeout          = "TIMEOUT"
	codeInternal         = "INTERNAL_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse answers admin mutations.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse wraps a payload for the enrichment routes.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes the body with FNV-1a.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondError logs err under the request's logger and sends the error body.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		ev := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			ev = logging.Ctx(r.Context()).Error()
		}
		ev.Str("code", code).
			Str("error", logging.SanitizeValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// respondValidation answers 400 with every failing field in the message.
func respondValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	respondError(w, r, http.StatusBadRequest, codeValidation, verr.Error(), nil)
}

// respondServiceError maps a service error to its status and code. The
// upstream detail goes to the log only; clients see the provider name.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var sourcesErr *places.SourcesFailedError
	switch {
	case errors.As(err, &sourcesErr):
		respondError(w, r, http.StatusInternalServerError, codePlacesFailed,
			"Failed to fetch nearby places from any source", err)
	case errors.Is(err, places.ErrInvalidPlace), errors.Is(err, places.ErrEmptyQuery):
		respondError(w, r, http.StatusBadRequest, codeValidation, err.Error(), nil)
	case errors.Is(err, places.ErrNoAPIKey), errors.Is(err, news.ErrNoAPIKey):
		respondError(w, r, http.StatusServiceUnavailable, codeNotConfigured,
			"The external service is not configured", err)
	case isProviderError(err):
		respondError(w, r, http.StatusBadGateway, codeExternalService,
			providerOf(err)+" request failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, codeTimeout, "The request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, codeInternal, "Internal server error", err)
	}
}

func isProviderError(err error) bool {
	var apiStatus *places.APIStatusError
	var newsErr *news.APIError
	return upstream.IsUnavailable(err) || errors.As(err, &apiStatus) || errors.As(err, &newsErr)
}

// providerOf names the provider behind err for the client message.
func providerOf(err error) string {
	var se *upstream.StatusError
	var te *upstream.TransportError
	var apiStatus *places.APIStatusError
	var newsErr *news.APIError
	switch {
	case errors.As(err, &se):
		return se.Provider
	case errors.As(err, &te):
		return te.Provider
	case errors.As(err, &apiStatus):
		return "google"
	case errors.As(err, &newsErr):
		return "newsapi"
	default:
		return "upstream"
	}
}
