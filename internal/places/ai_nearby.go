// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/llm"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/metrics"
)

// Nearby defaults and bounds.
const (
	DefaultNearbyLimit = 10
	MaxNearbyLimit     = 20
	DefaultRadius      = 5000
	MaxRadius          = 50000
	DefaultLanguage    = "en"
	DefaultCategory    = "attractions"

	featureNearby = "places_ai"
)

var errNoAIPlaces = errors.New("model returned no places with valid coordinates")

// googleTypes maps client categories to Google place types. Unknown
// categories are sent as a keyword instead.
var googleTypes = map[string]string{
	"attractions": "tourist_attraction",
	"restaurants": "restaurant",
	"food":        "restaurant",
	"cafes":       "cafe",
	"hotels":      "lodging",
	"shopping":    "shopping_mall",
	"nightlife":   "night_club",
	"museums":     "museum",
	"parks":       "park",
	"nature":      "park",
	"temples":     "place_of_worship",
}

// AINearbyService recommends places around a point, asking the model first
// and falling back to Google Nearby Search.
type AINearbyService struct {
	llm    LLM
	google Provider
	cache  *cache.Cache[NearbyResult]
}

// NewAINearbyService wires the service to its dependencies.
func NewAINearbyService(model LLM, google Provider, c *cache.Cache[NearbyResult]) *AINearbyService {
	return &AINearbyService{llm: model, google: google, cache: c}
}

// Cache exposes the backing cache for the stats and admin routes.
func (s *AINearbyService) Cache() *cache.Cache[NearbyResult] { return s.cache }

// Nearby returns up to req.Limit places sorted by distance from the query point.
func (s *AINearbyService) Nearby(ctx context.Context, req NearbyRequest) (NearbyResult, error) {
	req = normalizeNearby(req)

	key, err := NearbyKey(req)
	if err != nil {
		return NearbyResult{}, err
	}

	res, lr, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (NearbyResult, error) {
		return s.fetch(ctx, req)
	})
	if err != nil {
		return NearbyResult{}, err
	}
	res.Cached = lr.Hit
	return res, nil
}

// NearbyKey derives the cache key for a normalized request. Preferences are
// encoded as canonical JSON so key order does not fragment the cache.
func NearbyKey(req NearbyRequest) (string, error) {
	b := cache.NewKey("places_ai").
		Coord(req.Lat, req.Lng).
		Str(req.Category).
		Int(req.Limit).
		Str(req.UserType).
		Str(req.Vibe).
		Str(req.Language).
		Int(req.Radius).
		JSON(req.Preferences)
	if err := b.Err(); err != nil {
		return "", fmt.Errorf("build nearby cache key: %w", err)
	}
	return b.String(), nil
}

func normalizeNearby(req NearbyRequest) NearbyRequest {
	if req.Limit <= 0 {
		req.Limit = DefaultNearbyLimit
	}
	if req.Limit > MaxNearbyLimit {
		req.Limit = MaxNearbyLimit
	}
	if req.Radius <= 0 {
		req.Radius = DefaultRadius
	}
	if req.Radius > MaxRadius {
		req.Radius = MaxRadius
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultLanguage
	}
	if strings.TrimSpace(req.Category) == "" {
		req.Category = DefaultCategory
	}
	return req
}

// fetch is the miss path: model first, Google second.
func (s *AINearbyService) fetch(ctx context.Context, req NearbyRequest) (NearbyResult, error) {
	origin := Location{Lat: req.Lat, Lng: req.Lng}

	var aiErr error
	reason := "llm_unconfigured"
	if s.llm != nil && s.llm.Configured() {
		found, err := s.askModel(ctx, req)
		if err == nil {
			return finishNearby(origin, req.Limit, found, SourceAI), nil
		}
		aiErr = err
		reason = "llm_error"
		logging.Ctx(ctx).Warn().Err(err).Str("feature", featureNearby).Msg("AI nearby lookup failed, using Google Places")
	} else {
		aiErr = llm.ErrNotConfigured
	}
	metrics.RecordFallback(featureNearby, reason)

	q := NearbyQuery{
		Lat:      req.Lat,
		Lng:      req.Lng,
		Radius:   req.Radius,
		Language: req.Language,
	}
	if t, ok := googleTypes[strings.ToLower(req.Category)]; ok {
		q.Type = t
	} else {
		q.Keyword = req.Category
	}

	found, err := s.google.NearbySearch(ctx, q)
	if err != nil {
		return NearbyResult{}, &SourcesFailedError{AI: aiErr, Google: err}
	}
	return finishNearby(origin, req.Limit, found, SourceGooglePlaces), nil
}

func finishNearby(origin Location, limit int, found []Place, source string) NearbyResult {
	results := withDistances(origin, found)
	sortByDistance(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return NearbyResult{
		Status:   statusOK,
		Results:  results,
		Location: origin,
		Source:   source,
		Total:    len(results),
	}
}

// aiPlace is the shape the model is asked to produce.
type aiPlace struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
	Rating      float64 `json:"rating"`
	PriceLevel  int     `json:"price_level"`
	WhyVisit    string  `json:"why_visit"`
}

// aiPlaceList accepts either a bare array or {"places": [...]}.
type aiPlaceList []aiPlace

func (l *aiPlaceList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []aiPlace
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}

	var wrapped struct {
		Places *[]aiPlace `json:"places"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Places == nil {
		return errors.New(`object has no "places" array`)
	}
	*l = *wrapped.Places
	return nil
}

func (s *AINearbyService) askModel(ctx context.Context, req NearbyRequest) ([]Place, error) {
	var list aiPlaceList
	if _, err := s.llm.CompleteInto(ctx, featureNearby, nearbyPrompt(req), &list); err != nil {
		return nil, err
	}

	out := make([]Place, 0, len(list))
	for _, p := range list {
		loc := Location{Lat: p.Latitude, Lng: p.Longitude}
		if strings.TrimSpace(p.Name) == "" || !loc.Valid() {
			continue
		}
		out = append(out, Place{
			PlaceID:     cache.NewKey("ai").Str(p.Name).Coord(loc.Lat, loc.Lng).Hashed(),
			Name:        p.Name,
			Address:     p.Address,
			Location:    loc,
			Category:    firstNonEmpty(p.Category, req.Category),
			Rating:      p.Rating,
			PriceLevel:  p.PriceLevel,
			Description: p.Description,
			WhyVisit:    p.WhyVisit,
		})
	}
	if len(out) == 0 {
		return nil, errNoAIPlaces
	}
	return out, nil
}

func nearbyPrompt(req NearbyRequest) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommend %d real %s within %.1f km of latitude %.5f, longitude %.5f.\n",
		req.Limit, req.Category, float64(req.Radius)/1000, req.Lat, req.Lng)
	if req.UserType != "" {
		fmt.Fprintf(&b, "The traveler is a %s.\n", req.UserType)
	}
	if req.Vibe != "" {
		fmt.Fprintf(&b, "They are looking for a %s vibe.\n", req.Vibe)
	}
	if len(req.Preferences) > 0 {
		if prefs, err := cache.CanonicalJSON(req.Preferences); err == nil {
			fmt.Fprintf(&b, "Their preferences: %s\n", prefs)
		}
	}
	fmt.Fprintf(&b, "Write names and descriptions in language %q.\n", req.Language)
	b.WriteString(`Respond with JSON only: {"places":[{"name":"","description":"","category":"",` +
		`"latitude":0,"longitude":0,"address":"","rating":0,"price_level":0,"why_visit":""}]}. ` +
		`Use accurate coordinates; omit places you are unsure exist.`)

	return []llm.Message{
		llm.System("You are a local travel expert. You only recommend places that exist and you answer in strict JSON."),
		llm.User(b.String()),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
