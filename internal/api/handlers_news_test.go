// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

func TestTravelNews(t *testing.T) {
	published := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	env := newTestEnv(t, func(e *testEnv) {
		e.news.total = 42
		e.news.articles = []news.Article{{Title: "New rail line to Jaffna", URL: "https://news.example/1", PublishedAt: published}}
	})

	first := decodeBody[news.Result](t, env.get("/api/travel-news?q=sri+lanka&pageSize=5"))
	if first.Status != "ok" || first.TotalResults != 42 || len(first.Articles) != 1 || first.Cached {
		t.Fatalf("first = %+v", first)
	}
	if !first.Articles[0].PublishedAt.Equal(published) {
		t.Errorf("published_at = %v", first.Articles[0].PublishedAt)
	}

	second := decodeBody[news.Result](t, env.get("/api/travel-news?q=sri+lanka&pageSize=5"))
	if !second.Cached || env.news.calls.Load() != 1 {
		t.Errorf("cached=%v calls=%d, want cached and one upstream call", second.Cached, env.news.calls.Load())
	}
}

func TestTravelNews_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
		code   string
	}{
		{"bad page size", "pageSize=ten", nil, http.StatusBadRequest, codeValidation},
		{"no api key", "", news.ErrNoAPIKey, http.StatusServiceUnavailable, codeNotConfigured},
		{"api error", "", &news.APIError{Code: "rateLimited", Message: "slow down"}, http.StatusBadGateway, codeExternalService},
		{"circuit open", "", upstream.ErrCircuitOpen, http.StatusBadGateway, codeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(e *testEnv) { e.news.err = tt.err })
			assertError(t, env.get("/api/travel-news?"+tt.query), tt.status, tt.code)
			if env.newsCache.Len() != 0 {
				t.Error("error result was cached")
			}
		})
	}
}
