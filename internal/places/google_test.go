// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

const nearbyFixture = `{
  "status": "OK",
  "results": [{
    "place_id": "ChIJ1",
    "name": "Colombo National Museum",
    "vicinity": "Sir Marcus Fernando Mawatha, Colombo",
    "geometry": {"location": {"lat": 6.9105, "lng": 79.8612}},
    "rating": 4.5,
    "user_ratings_total": 12000,
    "price_level": 1,
    "types": ["museum", "tourist_attraction"],
    "opening_hours": {"open_now": true},
    "photos": [{"photo_reference": "ref123", "width": 800, "height": 600}]
  }]
}`

const geocodeFixture = `{
  "status": "OK",
  "results": [{
    "place_id": "ChIJgeo",
    "formatted_address": "Colombo, Sri Lanka",
    "geometry": {"location": {"lat": 6.9271, "lng": 79.8612}},
    "types": ["locality"],
    "address_components": [{"long_name": "Colombo", "short_name": "Colombo", "types": ["locality"]}]
  }]
}`

func newGoogleServer(t *testing.T, body string, status int) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		last.Set("_path", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newTestGoogleClient(baseURL, key string) *GoogleClient {
	return NewGoogleClient(config.GoogleConfig{
		APIKey:  key,
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, upstream.BreakerConfig{})
}

func TestGoogleNearbySearch(t *testing.T) {
	srv, last := newGoogleServer(t, nearbyFixture, http.StatusOK)
	g := newTestGoogleClient(srv.URL, "g-key")

	got, err := g.NearbySearch(context.Background(), NearbyQuery{
		Lat: 6.9271, Lng: 79.8612, Radius: 3000, Type: "museum", Language: "en",
	})
	if err != nil {
		t.Fatalf("NearbySearch() error = %v", err)
	}

	q := *last
	if q.Get("_path") != "/maps/api/place/nearbysearch/json" {
		t.Errorf("path = %s", q.Get("_path"))
	}
	if q.Get("key") != "g-key" || q.Get("location") != "6.9271,79.8612" || q.Get("radius") != "3000" || q.Get("type") != "museum" {
		t.Errorf("unexpected query %v", q)
	}
	if q.Has("keyword") {
		t.Error("empty keyword should be omitted")
	}

	if len(got) != 1 {
		t.Fatalf("got %d places, want 1", len(got))
	}
	p := got[0]
	if p.PlaceID != "ChIJ1" || p.Address != "Sir Marcus Fernando Mawatha, Colombo" || p.Category != "museum" {
		t.Errorf("unexpected place %+v", p)
	}
	if p.OpenNow == nil || !*p.OpenNow {
		t.Error("OpenNow should be set from opening_hours")
	}
	if !strings.Contains(p.PhotoURL, "/maps/api/place/photo?") || !strings.Contains(p.PhotoURL, "photo_reference=ref123") ||
		!strings.Contains(p.PhotoURL, "maxwidth=400") {
		t.Errorf("PhotoURL = %s", p.PhotoURL)
	}
}

func TestGoogleTextSearch_LocationOptional(t *testing.T) {
	srv, last := newGoogleServer(t, `{"status":"ZERO_RESULTS","results":[]}`, http.StatusOK)
	g := newTestGoogleClient(srv.URL, "g-key")
	ctx := context.Background()

	got, err := g.TextSearch(ctx, TextQuery{Query: "spice garden"})
	if err != nil {
		t.Fatalf("TextSearch() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ZERO_RESULTS should give no places, got %d", len(got))
	}
	if last.Has("location") || last.Has("radius") || last.Get("query") != "spice garden" {
		t.Errorf("unexpected query %v", *last)
	}

	if _, err := g.TextSearch(ctx, TextQuery{Query: "tea", Lat: 7, Lng: 80, HasLocation: true, Radius: 1000}); err != nil {
		t.Fatal(err)
	}
	if last.Get("location") != "7,80" || last.Get("radius") != "1000" {
		t.Errorf("location bias missing: %v", *last)
	}
}

func TestGoogleGeocode(t *testing.T) {
	srv, last := newGoogleServer(t, geocodeFixture, http.StatusOK)
	g := newTestGoogleClient(srv.URL, "g-key")

	got, err := g.Geocode(context.Background(), "Colombo")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if last.Get("_path") != "/maps/api/geocode/json" || last.Get("address") != "Colombo" {
		t.Errorf("unexpected request %v", *last)
	}
	if len(got) != 1 || got[0].FormattedAddress != "Colombo, Sri Lanka" || got[0].Components[0].LongName != "Colombo" {
		t.Errorf("Geocode() = %+v", got)
	}

	if _, err := g.ReverseGeocode(context.Background(), 6.9271, 79.8612); err != nil {
		t.Fatal(err)
	}
	if last.Get("latlng") != "6.9271,79.8612" {
		t.Errorf("latlng = %s", last.Get("latlng"))
	}
}

func TestGoogle_StatusErrors(t *testing.T) {
	srv, _ := newGoogleServer(t, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`, http.StatusOK)
	g := newTestGoogleClient(srv.URL, "bad-key")

	_, err := g.NearbySearch(context.Background(), NearbyQuery{Lat: 1, Lng: 1})
	var apiErr *APIStatusError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIStatusError", err)
	}
	if apiErr.Status != "REQUEST_DENIED" || !strings.Contains(apiErr.Error(), "API key is invalid") {
		t.Errorf("unexpected error %v", apiErr)
	}
}

func TestGoogle_HTTPError(t *testing.T) {
	srv, _ := newGoogleServer(t, "bad gateway", http.StatusBadGateway)
	g := newTestGoogleClient(srv.URL, "g-key")

	_, err := g.Geocode(context.Background(), "Kandy")
	var statusErr *upstream.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("error = %v, want 502 StatusError", err)
	}
}

func TestGoogle_NoAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()
	g := newTestGoogleClient(srv.URL, "")

	if g.Configured() {
		t.Error("client without key should not be configured")
	}
	if _, err := g.TextSearch(context.Background(), TextQuery{Query: "x"}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
	if called {
		t.Error("no request should be sent without a key")
	}
	if g.PhotoURL("ref", 0) != "" {
		t.Error("PhotoURL without a key should be empty")
	}
}

func TestGooglePhotoURL(t *testing.T) {
	g := newTestGoogleClient("https://maps.example.com/", "k")
	got := g.PhotoURL("abc", 800)
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "maps.example.com" || u.Path != "/maps/api/place/photo" {
		t.Errorf("PhotoURL() = %s", got)
	}
	if u.Query().Get("maxwidth") != "800" || u.Query().Get("photo_reference") != "abc" || u.Query().Get("key") != "k" {
		t.Errorf("PhotoURL() query = %v", u.Query())
	}
	if g.PhotoURL("", 800) != "" {
		t.Error("empty reference should give an empty URL")
	}
}
