// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/travelbuddy/internal/places"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header http.Header
		status int
		code   string
	}{
		{"disabled without secret", "", adminHeader(), http.StatusForbidden, codeForbidden},
		{"missing header", testSecret, nil, http.StatusUnauthorized, codeUnauthorized},
		{"wrong secret", testSecret, http.Header{AdminSecretHeader: []string{"guess"}}, http.StatusUnauthorized, codeUnauthorized},
		{"prefix of secret", testSecret, http.Header{AdminSecretHeader: []string{testSecret[:5]}}, http.StatusUnauthorized, codeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(e *testEnv) { e.cfg.Security.AdminSecret = tt.secret })
			env.nearbyCache.Set("k", places.NearbyResult{})

			rec := env.do(http.MethodDelete, "/api/admin/caches", "", tt.header)
			assertError(t, rec, tt.status, tt.code)
			if env.nearbyCache.Len() != 1 {
				t.Error("rejected request cleared the cache")
			}
		})
	}
}

func TestRequireAdmin_BearerToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/admin/caches", "", http.Header{"Authorization": []string{"Bearer " + testSecret}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestListCaches(t *testing.T) {
	env := newTestEnv(t)
	env.geoCache.Set("geo_1.0000_2.0000", places.GeocodeResult{})

	list := decodeBody[CacheList](t, env.do(http.MethodGet, "/api/admin/caches", "", adminHeader()))
	want := []string{"enrichment", "geo", "news", "places_ai", "search"}
	if len(list.Caches) != len(want) {
		t.Fatalf("got %d caches, want %d", len(list.Caches), len(want))
	}
	for i, name := range want {
		if list.Caches[i].Name != name {
			t.Errorf("caches[%d] = %q, want %q", i, list.Caches[i].Name, name)
		}
	}
	if list.Caches[1].Size != 1 || list.Caches[1].MaxEntries != 100 {
		t.Errorf("geo stats = %+v", list.Caches[1])
	}
}

func TestCacheStatsAndClearByName(t *testing.T) {
	env := newTestEnv(t)
	env.searchCache.Set("search_a", places.SearchResult{})
	env.geoCache.Set("geo_b", places.GeocodeResult{})

	detail := decodeBody[CacheDetail](t, env.do(http.MethodGet, "/api/admin/caches/search", "", adminHeader()))
	if detail.Name != "search" || len(detail.Keys) != 1 || detail.Keys[0] != "search_a" {
		t.Errorf("detail = %+v", detail)
	}

	rec := env.do(http.MethodDelete, "/api/admin/caches/search", "", adminHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.searchCache.Len() != 0 {
		t.Error("search cache not cleared")
	}
	if env.geoCache.Len() != 1 {
		t.Error("clearing one cache touched another")
	}

	assertError(t, env.do(http.MethodDelete, "/api/admin/caches/nope", "", adminHeader()), http.StatusNotFound, codeNotFound)
}

func TestClearCaches(t *testing.T) {
	env := newTestEnv(t)
	env.searchCache.Set("a", places.SearchResult{})
	env.geoCache.Set("b", places.GeocodeResult{})

	body := decodeBody[MessageResponse](t, env.do(http.MethodDelete, "/api/admin/caches", "", adminHeader()))
	if !body.Success || body.Message != "Cleared 5 caches" {
		t.Errorf("body = %+v", body)
	}
	if env.searchCache.Len()+env.geoCache.Len() != 0 {
		t.Error("caches not cleared")
	}
}
