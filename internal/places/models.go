// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import "time"

// Result sources reported to clients.
const (
	SourceAI           = "ai"
	SourceGooglePlaces = "google_places"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are in range and not the 0,0 null island
// that models emit when they do not know a location.
func (l Location) Valid() bool {
	if l.Lat == 0 && l.Lng == 0 {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Place is a point of interest returned by the places endpoints.
type Place struct {
	PlaceID          string   `json:"place_id,omitempty"`
	Name             string   `json:"name"`
	Address          string   `json:"address,omitempty"`
	Location         Location `json:"location"`
	Category         string   `json:"category,omitempty"`
	Types            []string `json:"types,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	PriceLevel       int      `json:"price_level,omitempty"`
	Description      string   `json:"description,omitempty"`
	WhyVisit         string   `json:"why_visit,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	DistanceKM       float64  `json:"distance_km"`
}

// NearbyRequest holds the AI nearby query. Zero values take defaults in
// AINearbyService.Nearby.
type NearbyRequest struct {
	Lat         float64
	Lng         float64
	Category    string
	Limit       int
	UserType    string
	Vibe        string
	Language    string
	Radius      int // meters
	Preferences map[string]interface{}
}

// NearbyResult is the body of GET /api/places/ai/nearby.
type NearbyResult struct {
	Status   string   `json:"status"`
	Results  []Place  `json:"results"`
	Location Location `json:"location"`
	Source   string   `json:"source"`
	Total    int      `json:"total"`
	Cached   bool     `json:"cached"`
}

// Enrichment is the descriptive content generated for a place.
type Enrichment struct {
	Description       string    `json:"description"`
	Highlights        []string  `json:"highlights"`
	BestTimeToVisit   string    `json:"best_time_to_visit"`
	LocalTips         []string  `json:"local_tips"`
	Accessibility     string    `json:"accessibility"`
	EstimatedDuration string    `json:"estimated_duration"`
	PriceLevel        string    `json:"price_level"`
	Tags              []string  `json:"tags"`
	Fallback          bool      `json:"fallback"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// EnrichmentResult is the data object of POST /api/places-enrichment/enrich.
type EnrichmentResult struct {
	PlaceID    string     `json:"place_id"`
	Enrichment Enrichment `json:"enrichment"`
	Cached     bool       `json:"cached"`
}

// SearchRequest holds a hybrid text search. Lat and Lng bias results only
// when HasLocation is set.
type SearchRequest struct {
	Query       string
	Lat         float64
	Lng         float64
	HasLocation bool
	Radius      int
	Language    string
}

// SearchResult is the body of GET /api/places/search.
type SearchResult struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
	Total   int     `json:"total"`
	Cached  bool    `json:"cached"`
}

// AddressComponent is one part of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// GeocodeEntry is one geocoding match.
type GeocodeEntry struct {
	PlaceID          string             `json:"place_id"`
	FormattedAddress string             `json:"formatted_address"`
	Location         Location           `json:"location"`
	Types            []string           `json:"types,omitempty"`
	Components       []AddressComponent `json:"address_components,omitempty"`
}

// GeocodeResult is the body of the geocoding routes.
type GeocodeResult struct {
	Status  string         `json:"status"`
	Results []GeocodeEntry `json:"results"`
	Cached  bool           `json:"cached"`
}
