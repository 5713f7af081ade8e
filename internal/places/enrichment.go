// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/llm"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/metrics"
)

const featureEnrichment = "enrichment"

// ErrInvalidPlace is returned when a place has neither an id nor a name.
var ErrInvalidPlace = errors.New("place must have a place_id or a name")

var priceLabels = []string{"Free", "Inexpensive", "Moderate", "Expensive", "Very Expensive"}

// EnrichmentOptions configures an EnrichmentService.
type EnrichmentOptions struct {
	// FallbackTTL is the lifetime of degraded payloads. Zero uses 10 minutes.
	FallbackTTL time.Duration
	// USD per 1000 tokens.
	PromptCostPer1K     float64
	CompletionCostPer1K float64
	// Clock stamps GeneratedAt. Defaults to time.Now.
	Clock func() time.Time
}

// EnrichmentMetrics is the body of GET /api/places-enrichment/metrics.
type EnrichmentMetrics struct {
	CacheHits           int64   `json:"cache_hits"`
	CacheMisses         int64   `json:"cache_misses"`
	HitRate             float64 `json:"hit_rate"`
	LLMCalls            int64   `json:"llm_calls"`
	LLMFailures         int64   `json:"llm_failures"`
	Fallbacks           int64   `json:"fallbacks"`
	PromptTokens        int64   `json:"prompt_tokens"`
	CompletionTokens    int64   `json:"completion_tokens"`
	EstimatedCostUSD    float64 `json:"estimated_cost_usd"`
	EstimatedSavingsUSD float64 `json:"estimated_savings_usd"`
	CacheSize           int     `json:"cache_size"`
}

// EnrichmentService generates long-lived descriptive content for places.
// Model failures produce a structurally identical fallback marked
// Fallback=true that is cached only for FallbackTTL.
type EnrichmentService struct {
	llm   LLM
	cache *cache.Cache[Enrichment]
	opts  EnrichmentOptions

	llmCalls         atomic.Int64
	llmFailures      atomic.Int64
	fallbacks        atomic.Int64
	promptTokens     atomic.Int64
	completionTokens atomic.Int64
}

// NewEnrichmentService wires the service to its dependencies.
func NewEnrichmentService(model LLM, c *cache.Cache[Enrichment], opts EnrichmentOptions) *EnrichmentService {
	if opts.FallbackTTL <= 0 {
		opts.FallbackTTL = 10 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &EnrichmentService{llm: model, cache: c, opts: opts}
}

// Cache exposes the backing cache for the admin routes.
func (s *EnrichmentService) Cache() *cache.Cache[Enrichment] { return s.cache }

// EnrichKey derives the hashed cache key: place_id when present, otherwise
// name plus rounded coordinates, then language.
func EnrichKey(p Place, language string) string {
	b := cache.NewKey("enrich")
	if p.PlaceID != "" {
		b.Str(p.PlaceID)
	} else {
		b.Str(p.Name).Coord(p.Location.Lat, p.Location.Lng)
	}
	return b.Str(normalizeLanguage(language)).Hashed()
}

// Enrich returns the enrichment for p in language.
func (s *EnrichmentService) Enrich(ctx context.Context, p Place, language string) (EnrichmentResult, error) {
	if strings.TrimSpace(p.PlaceID) == "" && strings.TrimSpace(p.Name) == "" {
		return EnrichmentResult{}, ErrInvalidPlace
	}
	language = normalizeLanguage(language)
	key := EnrichKey(p, language)

	e, lr, err := s.cache.GetOrLoadTTL(ctx, key, func(ctx context.Context) (Enrichment, time.Duration, error) {
		return s.generate(ctx, p, language)
	})
	if err != nil {
		return EnrichmentResult{}, err
	}

	placeID := p.PlaceID
	if placeID == "" {
		placeID = key
	}
	return EnrichmentResult{PlaceID: placeID, Enrichment: e, Cached: lr.Hit}, nil
}

// generate asks the model, falling back to a payload built from p. It never
// fails; the returned TTL is zero (cache default) or FallbackTTL.
func (s *EnrichmentService) generate(ctx context.Context, p Place, language string) (Enrichment, time.Duration, error) {
	reason := "llm_unconfigured"
	if s.llm != nil && s.llm.Configured() {
		e, err := s.askModel(ctx, p, language)
		if err == nil {
			return e, 0, nil
		}
		reason = "llm_error"
		logging.Ctx(ctx).Warn().Err(err).Str("place", logging.SanitizeValue(p.Name)).Msg("Enrichment generation failed, caching fallback")
	}

	s.fallbacks.Add(1)
	metrics.RecordFallback(featureEnrichment, reason)
	return s.fallback(p), s.opts.FallbackTTL, nil
}

// llmEnrichment is the shape the model is asked to produce.
type llmEnrichment struct {
	Description       string   `json:"description"`
	Highlights        []string `json:"highlights"`
	BestTimeToVisit   string   `json:"best_time_to_visit"`
	LocalTips         []string `json:"local_tips"`
	Accessibility     string   `json:"accessibility"`
	EstimatedDuration string   `json:"estimated_duration"`
	PriceLevel        string   `json:"price_level"`
	Tags              []string `json:"tags"`
}

func (s *EnrichmentService) askModel(ctx context.Context, p Place, language string) (Enrichment, error) {
	s.llmCalls.Add(1)

	var out llmEnrichment
	usage, err := s.llm.CompleteInto(ctx, featureEnrichment, enrichmentPrompt(p, language), &out)
	s.promptTokens.Add(int64(usage.PromptTokens))
	s.completionTokens.Add(int64(usage.CompletionTokens))
	if err == nil && strings.TrimSpace(out.Description) == "" {
		err = errors.New("model returned an empty description")
	}
	if err != nil {
		s.llmFailures.Add(1)
		return Enrichment{}, err
	}

	return Enrichment{
		Description:       out.Description,
		Highlights:        nonNil(out.Highlights),
		BestTimeToVisit:   out.BestTimeToVisit,
		LocalTips:         nonNil(out.LocalTips),
		Accessibility:     out.Accessibility,
		EstimatedDuration: out.EstimatedDuration,
		PriceLevel:        out.PriceLevel,
		Tags:              nonNil(out.Tags),
		GeneratedAt:       s.opts.Clock().UTC(),
	}, nil
}

// fallback builds an enrichment from the fields the caller already has.
func (s *EnrichmentService) fallback(p Place) Enrichment {
	category := firstNonEmpty(p.Category, firstOf(p.Types), "place")
	category = strings.ReplaceAll(category, "_", " ")

	desc := p.Description
	if desc == "" {
		desc = fmt.Sprintf("%s is a %s", firstNonEmpty(p.Name, "This place"), category)
		if p.Address != "" {
			desc += " located at " + p.Address
		}
		desc += "."
	}

	highlights := []string{}
	if p.Rating > 0 {
		highlights = append(highlights, fmt.Sprintf("Rated %.1f by visitors", p.Rating))
	}
	if p.WhyVisit != "" {
		highlights = append(highlights, p.WhyVisit)
	}

	tags := []string{}
	seen := map[string]bool{}
	for _, t := range append([]string{p.Category}, p.Types...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	price := "Unknown"
	if p.PriceLevel > 0 && p.PriceLevel < len(priceLabels) {
		price = priceLabels[p.PriceLevel]
	}

	return Enrichment{
		Description:       desc,
		Highlights:        highlights,
		BestTimeToVisit:   "Early morning or late afternoon",
		LocalTips:         []string{"Check opening hours before visiting"},
		Accessibility:     "Information not available",
		EstimatedDuration: "1-2 hours",
		PriceLevel:        price,
		Tags:              tags,
		Fallback:          true,
		GeneratedAt:       s.opts.Clock().UTC(),
	}
}

func enrichmentPrompt(p Place, language string) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Place: %s\n", p.Name)
	if p.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", p.Address)
	}
	if p.Location.Valid() {
		fmt.Fprintf(&b, "Coordinates: %.5f, %.5f\n", p.Location.Lat, p.Location.Lng)
	}
	if cat := firstNonEmpty(p.Category, firstOf(p.Types)); cat != "" {
		fmt.Fprintf(&b, "Category: %s\n", cat)
	}
	if p.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %.1f\n", p.Rating)
	}
	fmt.Fprintf(&b, "Write in language %q.\n", language)
	b.WriteString(`Respond with JSON only: {"description":"","highlights":[],"best_time_to_visit":"",` +
		`"local_tips":[],"accessibility":"","estimated_duration":"","price_level":"","tags":[]}`)

	return []llm.Message{
		llm.System("You are a travel writer who produces accurate, concise guides for visitors. Answer in strict JSON."),
		llm.User(b.String()),
	}
}

// Metrics reports usage and the estimated spend and savings of the cache.
// Savings are cache hits times the average cost of one model call.
func (s *EnrichmentService) Metrics() EnrichmentMetrics {
	st := s.cache.Stats()
	calls := s.llmCalls.Load()
	prompt := s.promptTokens.Load()
	completion := s.completionTokens.Load()

	cost := float64(prompt)/1000*s.opts.PromptCostPer1K + float64(completion)/1000*s.opts.CompletionCostPer1K
	var savings float64
	if calls > 0 {
		savings = float64(st.Hits) * cost / float64(calls)
	}

	return EnrichmentMetrics{
		CacheHits:           st.Hits,
		CacheMisses:         st.Misses,
		HitRate:             st.HitRate,
		LLMCalls:            calls,
		LLMFailures:         s.llmFailures.Load(),
		Fallbacks:           s.fallbacks.Load(),
		PromptTokens:        prompt,
		CompletionTokens:    completion,
		EstimatedCostUSD:    roundUSD(cost),
		EstimatedSavingsUSD: roundUSD(savings),
		CacheSize:           st.Size,
	}
}

func roundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
