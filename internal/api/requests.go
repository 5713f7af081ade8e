// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/places"
)

// Query parameters are validated as strings so a malformed number reports
// the parameter name. The typed request is built only after validation,
// at which point parsing cannot fail.

var errPreferences = errors.New("preferences must be a JSON object")

// NearbyParams holds the query of GET /api/places/ai/nearby.
// preferences is an optional JSON object folded into the cache key.
type NearbyParams struct {
	Lat         string `query:"lat" validate:"required,latitude"`
	Lng         string `query:"lng" validate:"required,longitude"`
	Category    string `query:"category" validate:"max=64"`
	Limit       string `query:"limit" validate:"omitempty,number,max=4"`
	UserType    string `query:"userType" validate:"max=64"`
	Vibe        string `query:"vibe" validate:"max=64"`
	Language    string `query:"language" validate:"omitempty,language"`
	Radius      string `query:"radius" validate:"omitempty,number,max=6"`
	Preferences string `query:"preferences" validate:"omitempty,max=2048,json"`
}

func nearbyParamsFrom(q url.Values) NearbyParams {
	return NearbyParams{
		Lat:         q.Get("lat"),
		Lng:         q.Get("lng"),
		Category:    q.Get("category"),
		Limit:       q.Get("limit"),
		UserType:    q.Get("userType"),
		Vibe:        q.Get("vibe"),
		Language:    q.Get("language"),
		Radius:      q.Get("radius"),
		Preferences: q.Get("preferences"),
	}
}

// Request converts validated params. It fails only when preferences is
// valid JSON but not an object.
func (p NearbyParams) Request() (places.NearbyRequest, error) {
	req := places.NearbyRequest{
		Lat:      parseFloat(p.Lat),
		Lng:      parseFloat(p.Lng),
		Category: p.Category,
		Limit:    parseInt(p.Limit),
		UserType: p.UserType,
		Vibe:     p.Vibe,
		Language: p.Language,
		Radius:   parseInt(p.Radius),
	}
	if p.Preferences != "" {
		if json.Unmarshal([]byte(p.Preferences), &req.Preferences) != nil {
			return places.NearbyRequest{}, errPreferences
		}
	}
	return req, nil
}

// SearchParams holds the query of GET /api/places/search.
type SearchParams struct {
	Query    string `query:"q" validate:"required,notblank,max=256"`
	Lat      string `query:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng      string `query:"lng" validate:"required_with=Lat,omitempty,longitude"`
	Radius   string `query:"radius" validate:"omitempty,number,max=6"`
	Language string `query:"language" validate:"omitempty,language"`
}

func searchParamsFrom(q url.Values) SearchParams {
	return SearchParams{
		Query:    q.Get("q"),
		Lat:      q.Get("lat"),
		Lng:      q.Get("lng"),
		Radius:   q.Get("radius"),
		Language: q.Get("language"),
	}
}

// Request converts validated params.
func (p SearchParams) Request() places.SearchRequest {
	return places.SearchRequest{
		Query:       p.Query,
		Lat:         parseFloat(p.Lat),
		Lng:         parseFloat(p.Lng),
		HasLocation: p.Lat != "" && p.Lng != "",
		Radius:      parseInt(p.Radius),
		Language:    p.Language,
	}
}

// GeocodeParams holds the query of GET /api/places/geocode.
type GeocodeParams struct {
	Address string `query:"address" validate:"required,notblank,max=512"`
}

// ReverseGeocodeParams holds the query of GET /api/places/geocode/reverse.
type ReverseGeocodeParams struct {
	Lat string `query:"lat" validate:"required,latitude"`
	Lng string `query:"lng" validate:"required,longitude"`
}

// NewsParams holds the query of GET /api/travel-news.
type NewsParams struct {
	Query    string `query:"q" validate:"max=256"`
	Language string `query:"language" validate:"omitempty,language"`
	PageSize string `query:"pageSize" validate:"omitempty,number,max=3"`
	Page     string `query:"page" validate:"omitempty,number,max=4"`
}

func newsParamsFrom(q url.Values) NewsParams {
	return NewsParams{
		Query:    q.Get("q"),
		Language: q.Get("language"),
		PageSize: q.Get("pageSize"),
		Page:     q.Get("page"),
	}
}

// Request converts validated params.
func (p NewsParams) Request() news.Request {
	return news.Request{
		Query:    p.Query,
		Language: p.Language,
		PageSize: parseInt(p.PageSize),
		Page:     parseInt(p.Page),
	}
}

// EnrichRequest is the body of POST /api/places-enrichment/enrich.
type EnrichRequest struct {
	Place    *places.Place `json:"place" validate:"required"`
	Language string        `json:"language" validate:"omitempty,language"`
}

// parseFloat and parseInt read values that already passed validation;
// empty input yields zero.
func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
