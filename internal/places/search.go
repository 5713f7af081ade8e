// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/travelbuddy/internal/cache"
)

// ErrEmptyQuery is returned for a blank search query or address.
var ErrEmptyQuery = errors.New("query must not be empty")

// SearchService runs cached text search and geocoding against Google.
// Forward and reverse geocoding share the bounded geo cache.
type SearchService struct {
	google Provider
	search *cache.Cache[SearchResult]
	geo    *cache.Cache[GeocodeResult]
}

// NewSearchService wires the service to its dependencies.
func NewSearchService(google Provider, search *cache.Cache[SearchResult], geo *cache.Cache[GeocodeResult]) *SearchService {
	return &SearchService{google: google, search: search, geo: geo}
}

// SearchKey derives the search cache key. Requests without a location use
// "-" in place of the coordinates and radius.
func SearchKey(req SearchRequest) string {
	b := cache.NewKey("search").Str(req.Query)
	if req.HasLocation {
		b.Coord(req.Lat, req.Lng).Int(req.Radius)
	} else {
		b.Str("").Str("").Str("")
	}
	return b.Str(normalizeLanguage(req.Language)).String()
}

// GeocodeKey derives the forward geocoding key.
func GeocodeKey(address string) string {
	return cache.NewKey("geocode").Str(address).String()
}

// ReverseGeocodeKey derives the reverse geocoding key: geo_<lat>_<lng>.
func ReverseGeocodeKey(lat, lng float64) string {
	return cache.NewKey("geo").Coord(lat, lng).String()
}

// Search runs a text search. With a location, results carry distance_km
// but keep Google's relevance order.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return SearchResult{}, ErrEmptyQuery
	}
	if req.HasLocation && req.Radius <= 0 {
		req.Radius = DefaultRadius
	}
	if req.Radius > MaxRadius {
		req.Radius = MaxRadius
	}
	req.Language = normalizeLanguage(req.Language)

	res, lr, err := s.search.GetOrLoad(ctx, SearchKey(req), func(ctx context.Context) (SearchResult, error) {
		found, err := s.google.TextSearch(ctx, TextQuery{
			Query:       req.Query,
			Lat:         req.Lat,
			Lng:         req.Lng,
			HasLocation: req.HasLocation,
			Radius:      req.Radius,
			Language:    req.Language,
		})
		if err != nil {
			return SearchResult{}, err
		}
		if req.HasLocation {
			found = withDistances(Location{Lat: req.Lat, Lng: req.Lng}, found)
		}
		return SearchResult{Status: resultStatus(len(found)), Results: found, Total: len(found)}, nil
	})
	if err != nil {
		return SearchResult{}, err
	}
	res.Cached = lr.Hit
	return res, nil
}

// Geocode resolves an address.
func (s *SearchService) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return GeocodeResult{}, ErrEmptyQuery
	}
	return s.geocode(ctx, GeocodeKey(address), func(ctx context.Context) ([]GeocodeEntry, error) {
		return s.google.Geocode(ctx, address)
	})
}

// ReverseGeocode resolves coordinates. Points within about 11 m share an entry.
func (s *SearchService) ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodeResult, error) {
	rlat, rlng := cache.RoundCoord(lat), cache.RoundCoord(lng)
	return s.geocode(ctx, ReverseGeocodeKey(lat, lng), func(ctx context.Context) ([]GeocodeEntry, error) {
		return s.google.ReverseGeocode(ctx, rlat, rlng)
	})
}

func (s *SearchService) geocode(ctx context.Context, key string, fn func(context.Context) ([]GeocodeEntry, error)) (GeocodeResult, error) {
	res, lr, err := s.geo.GetOrLoad(ctx, key, func(ctx context.Context) (GeocodeResult, error) {
		entries, err := fn(ctx)
		if err != nil {
			return GeocodeResult{}, err
		}
		return GeocodeResult{Status: resultStatus(len(entries)), Results: entries}, nil
	})
	if err != nil {
		return GeocodeResult{}, err
	}
	res.Cached = lr.Hit
	return res, nil
}
