// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"net/http"

	"github.com/tomtom215/travelbuddy/internal/validation"
)

// TravelNews serves cached NewsAPI articles.
//
// @Summary Travel news
// @Tags News
// @Produce json
// @Param q query string false "Search terms" default(travel)
// @Param language query string false "Article language" default(en)
// @Param pageSize query int false "Articles per page (max 100)" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} news.Result
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "NEWS_API_KEY is not set"
// @Router /travel-news [get]
func (h *Handler) TravelNews(w http.ResponseWriter, r *http.Request) {
	params := newsParamsFrom(r.URL.Query())
	if verr := validation.ValidateStruct(&params); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	res, err := h.news.TravelNews(r.Context(), params.Request())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
