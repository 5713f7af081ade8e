// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

// Google statuses that mean the call worked.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// ErrNoAPIKey is returned when no Google API key is configured.
var ErrNoAPIKey = errors.New("places: google api key not configured")

// APIStatusError reports a Google response whose status is neither OK nor
// ZERO_RESULTS (REQUEST_DENIED, OVER_QUERY_LIMIT, INVALID_REQUEST, ...).
type APIStatusError struct {
	Status  string
	Message string
}

func (e *APIStatusError) Error() string {
	if e.Message == "" {
		return "google places: " + e.Status
	}
	return fmt.Sprintf("google places: %s: %s", e.Status, e.Message)
}

// NearbyQuery is a Nearby Search request.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	Radius   int
	Type     string
	Keyword  string
	Language string
}

// TextQuery is a Text Search request.
type TextQuery struct {
	Query       string
	Lat         float64
	Lng         float64
	HasLocation bool
	Radius      int
	Language    string
}

// GoogleClient calls the Google Places and Geocoding web services.
type GoogleClient struct {
	apiKey  string
	baseURL string
	http    *upstream.Client
}

// NewGoogleClient creates a client from cfg.
func NewGoogleClient(cfg config.GoogleConfig, breaker upstream.BreakerConfig) *GoogleClient {
	return &GoogleClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http: upstream.NewClient(upstream.Config{
			Name:              "google",
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             10,
			Breaker:           breaker,
		}),
	}
}

// Configured reports whether an API key is set.
func (g *GoogleClient) Configured() bool { return g.apiKey != "" }

// BreakerState reports the circuit breaker state.
func (g *GoogleClient) BreakerState() string { return g.http.BreakerState() }

// NearbySearch lists places around a point.
func (g *GoogleClient) NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error) {
	req := g.request("/maps/api/place/nearbysearch/json").
		Param("location", latLng(q.Lat, q.Lng)).
		IntParam("radius", q.Radius).
		Param("type", q.Type).
		Param("keyword", q.Keyword).
		Param("language", q.Language)

	resp, err := g.placesCall(ctx, req)
	if err != nil {
		return nil, err
	}
	return g.convertPlaces(resp.Results, q.Type), nil
}

// TextSearch finds places matching a free-text query.
func (g *GoogleClient) TextSearch(ctx context.Context, q TextQuery) ([]Place, error) {
	req := g.request("/maps/api/place/textsearch/json").
		Param("query", q.Query).
		Param("language", q.Language)
	if q.HasLocation {
		req.Param("location", latLng(q.Lat, q.Lng)).IntParam("radius", q.Radius)
	}

	resp, err := g.placesCall(ctx, req)
	if err != nil {
		return nil, err
	}
	return g.convertPlaces(resp.Results, ""), nil
}

// Geocode resolves an address to coordinates.
func (g *GoogleClient) Geocode(ctx context.Context, address string) ([]GeocodeEntry, error) {
	return g.geocodeCall(ctx, g.request("/maps/api/geocode/json").Param("address", address))
}

// ReverseGeocode resolves coordinates to addresses.
func (g *GoogleClient) ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeEntry, error) {
	return g.geocodeCall(ctx, g.request("/maps/api/geocode/json").Param("latlng", latLng(lat, lng)))
}

// PhotoURL builds a Place Photo URL. The URL carries the API key, which
// must therefore be restricted to the Places API in the Google console.
func (g *GoogleClient) PhotoURL(ref string, maxWidth int) string {
	if ref == "" || g.apiKey == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	return g.request("/maps/api/place/photo").
		IntParam("maxwidth", maxWidth).
		Param("photo_reference", ref).
		URL()
}

func (g *GoogleClient) request(path string) *upstream.Request {
	return upstream.NewRequest(g.baseURL, path).Param("key", g.apiKey)
}

func (g *GoogleClient) placesCall(ctx context.Context, req *upstream.Request) (*placesResponse, error) {
	if !g.Configured() {
		return nil, ErrNoAPIKey
	}
	resp, err := upstream.Do[placesResponse](ctx, g.http, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *GoogleClient) geocodeCall(ctx context.Context, req *upstream.Request) ([]GeocodeEntry, error) {
	if !g.Configured() {
		return nil, ErrNoAPIKey
	}
	resp, err := upstream.Do[geocodeResponse](ctx, g.http, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	out := make([]GeocodeEntry, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, GeocodeEntry{
			PlaceID:          r.PlaceID,
			FormattedAddress: r.FormattedAddress,
			Location:         Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Types:            r.Types,
			Components:       r.AddressComponents,
		})
	}
	return out, nil
}

func checkStatus(status, message string) error {
	if status == statusOK || status == statusZeroResults {
		return nil
	}
	return &APIStatusError{Status: status, Message: message}
}

func (g *GoogleClient) convertPlaces(results []googlePlace, category string) []Place {
	out := make([]Place, 0, len(results))
	for _, r := range results {
		p := Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Address:          r.Vicinity,
			Location:         Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Category:         category,
			Types:            r.Types,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       r.PriceLevel,
		}
		if p.Address == "" {
			p.Address = r.FormattedAddress
		}
		if p.Category == "" && len(r.Types) > 0 {
			p.Category = r.Types[0]
		}
		if r.OpeningHours != nil {
			open := r.OpeningHours.OpenNow
			p.OpenNow = &open
		}
		if len(r.Photos) > 0 {
			p.PhotoURL = g.PhotoURL(r.Photos[0].PhotoReference, 400)
		}
		out = append(out, p)
	}
	return out
}

func latLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Wire types for the Google web services.

type googleLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleGeometry struct {
	Location googleLatLng `json:"location"`
}

type googlePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type googlePlace struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Vicinity         string         `json:"vicinity"`
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
	Rating           float64        `json:"rating"`
	UserRatingsTotal int            `json:"user_ratings_total"`
	PriceLevel       int            `json:"price_level"`
	Types            []string       `json:"types"`
	Photos           []googlePhoto  `json:"photos"`
	OpeningHours     *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours"`
}

type placesResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	Results       []googlePlace `json:"results"`
	NextPageToken string        `json:"next_page_token"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID           string             `json:"place_id"`
		FormattedAddress  string             `json:"formatted_address"`
		Geometry          googleGeometry     `json:"geometry"`
		Types             []string           `json:"types"`
		AddressComponents []AddressComponent `json:"address_components"`
	} `json:"results"`
}
