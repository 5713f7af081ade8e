// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/llm"
	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/places"
)

const testSecret = "correct-horse-battery"

const nearbyReply = `{"places":[
	{"name":"Galle Face Green","latitude":6.9243,"longitude":79.8455,"category":"park","why_visit":"Sunset walks"},
	{"name":"Gangaramaya Temple","latitude":6.9167,"longitude":79.8563,"category":"temple"}
]}`

const enrichReply = `{"description":"A seaside promenade.","highlights":["Sunsets"],"best_time_to_visit":"Evening",
"local_tips":["Try isso vadai"],"accessibility":"Flat paths","estimated_duration":"1 hour","price_level":"Free","tags":["park"]}`

type stubLLM struct {
	configured bool
	reply      string
	err        error
	calls      atomic.Int32
}

func (s *stubLLM) Configured() bool { return s.configured }

func (s *stubLLM) CompleteInto(_ context.Context, _ string, _ []llm.Message, out interface{}) (llm.Usage, error) {
	s.calls.Add(1)
	if s.err != nil {
		return llm.Usage{}, s.err
	}
	_, err := llm.ParseInto(s.reply, out)
	return llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}, err
}

type stubGoogle struct {
	mu      sync.Mutex
	nearby  []places.Place
	text    []places.Place
	geocode []places.GeocodeEntry
	err     error
	calls   int
}

func (s *stubGoogle) answer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubGoogle) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubGoogle) NearbySearch(context.Context, places.NearbyQuery) ([]places.Place, error) {
	if err := s.answer(); err != nil {
		return nil, err
	}
	return s.nearby, nil
}

func (s *stubGoogle) TextSearch(context.Context, places.TextQuery) ([]places.Place, error) {
	if err := s.answer(); err != nil {
		return nil, err
	}
	return s.text, nil
}

func (s *stubGoogle) Geocode(context.Context, string) ([]places.GeocodeEntry, error) {
	if err := s.answer(); err != nil {
		return nil, err
	}
	return s.geocode, nil
}

func (s *stubGoogle) ReverseGeocode(context.Context, float64, float64) ([]places.GeocodeEntry, error) {
	if err := s.answer(); err != nil {
		return nil, err
	}
	return s.geocode, nil
}

type stubNews struct {
	total    int
	articles []news.Article
	err      error
	calls    atomic.Int32
}

func (s *stubNews) Everything(context.Context, news.Query) (int, []news.Article, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, nil, s.err
	}
	return s.total, s.articles, nil
}

type stubStatus struct {
	configured bool
	state      string
}

func (s stubStatus) Configured() bool     { return s.configured }
func (s stubStatus) BreakerState() string { return s.state }

type testEnv struct {
	cfg       *config.Config
	llm       *stubLLM
	google    *stubGoogle
	news      *stubNews
	providers map[string]ProviderStatus
	registry  *cache.Registry

	nearbyCache *cache.Cache[places.NearbyResult]
	enrichCache *cache.Cache[places.Enrichment]
	searchCache *cache.Cache[places.SearchResult]
	geoCache    *cache.Cache[places.GeocodeResult]
	newsCache   *cache.Cache[news.Result]

	handler http.Handler
}

func newTestEnv(t *testing.T, configure ...func(*testEnv)) *testEnv {
	t.Helper()

	env := &testEnv{
		cfg: &config.Config{
			Security: config.SecurityConfig{
				AdminSecret:       testSecret,
				RateLimitDisabled: true,
				CORSOrigins:       []string{"https://app.example.com"},
			},
		},
		llm:    &stubLLM{configured: true, reply: nearbyReply},
		google: &stubGoogle{},
		news:   &stubNews{},
		providers: map[string]ProviderStatus{
			"llm":     stubStatus{configured: true, state: "closed"},
			"google":  stubStatus{configured: true, state: "closed"},
			"newsapi": stubStatus{configured: true, state: "closed"},
		},
		registry: cache.NewRegistry(),

		nearbyCache: cache.New[places.NearbyResult](cache.Options{Name: "places_ai", TTL: time.Hour, MaxEntries: 1000}),
		enrichCache: cache.New[places.Enrichment](cache.Options{Name: "enrichment", TTL: 30 * 24 * time.Hour}),
		searchCache: cache.New[places.SearchResult](cache.Options{Name: "search", TTL: time.Hour}),
		geoCache:    cache.New[places.GeocodeResult](cache.Options{Name: "geo", TTL: 30 * time.Minute, MaxEntries: 100}),
		newsCache:   cache.New[news.Result](cache.Options{Name: "news", TTL: time.Hour}),
	}
	for _, fn := range configure {
		fn(env)
	}

	env.registry.MustRegister(env.nearbyCache, env.enrichCache, env.searchCache, env.geoCache, env.newsCache)

	h := NewHandler(Deps{
		Config:     env.cfg,
		Nearby:     places.NewAINearbyService(env.llm, env.google, env.nearbyCache),
		Enrichment: places.NewEnrichmentService(env.llm, env.enrichCache, places.EnrichmentOptions{}),
		Search:     places.NewSearchService(env.google, env.searchCache, env.geoCache),
		News:       news.NewService(env.news, env.newsCache),
		Registry:   env.registry,
		Providers:  env.providers,
		Version:    "test",
	})
	env.handler = NewRouter(h, nil).Setup()
	return env
}

func (e *testEnv) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, "", nil)
}

func adminHeader() http.Header {
	return http.Header{AdminSecretHeader: []string{testSecret}}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decodeBody[ErrorResponse](t, rec)
	if body.Error != code {
		t.Errorf("error = %q, want %q", body.Error, code)
	}
	return body
}
