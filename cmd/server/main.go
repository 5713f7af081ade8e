// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/travelbuddy/internal/api"
	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/cache/badgerstore"
	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/llm"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/metrics"
	"github.com/tomtom215/travelbuddy/internal/news"
	"github.com/tomtom215/travelbuddy/internal/places"
	"github.com/tomtom215/travelbuddy/internal/supervisor"
	"github.com/tomtom215/travelbuddy/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// managedCache is the part of cache.Cache[V] the startup code needs,
// independent of the value type.
type managedCache interface {
	cache.Inspector
	cache.Sweepable
	SweepInterval() time.Duration
	Restore(ctx context.Context) (int, error)
}

// caches groups the typed caches behind each route family.
type caches struct {
	placesAI   *cache.Cache[places.NearbyResult]
	enrichment *cache.Cache[places.Enrichment]
	search     *cache.Cache[places.SearchResult]
	geo        *cache.Cache[places.GeocodeResult]
	news       *cache.Cache[news.Result]
}

func (c *caches) all() []managedCache {
	return []managedCache{c.placesAI, c.enrichment, c.search, c.geo, c.news}
}

// newCache builds a cache from its config. Persisted caches get their own
// namespace in store when a store is open.
func newCache[V any](name string, spec config.CacheSpec, store *badgerstore.DB) *cache.Cache[V] {
	opts := spec.Options(name)
	if store != nil && spec.Persist {
		opts.Store = store.Namespace(name)
	}
	return cache.New[V](opts)
}

func buildCaches(cfg config.CacheConfig, store *badgerstore.DB) *caches {
	return &caches{
		placesAI:   newCache[places.NearbyResult]("places_ai", cfg.PlacesAI, store),
		enrichment: newCache[places.Enrichment]("enrichment", cfg.Enrichment, store),
		search:     newCache[places.SearchResult]("search", cfg.Search, store),
		geo:        newCache[places.GeocodeResult]("geo", cfg.Geo, store),
		news:       newCache[news.Result]("news", cfg.News, store),
	}
}

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting TravelBuddy with supervisor tree")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if cfg.AdminEnabled() {
		logging.Info().Str("admin_secret", logging.RedactSecret(cfg.Security.AdminSecret)).Msg("Cache administration enabled")
	} else {
		logging.Warn().Msg("ADMIN_SECRET is not set: cache administration routes will answer 403")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	// Optional snapshot store. Without it every cache starts cold.
	var store *badgerstore.DB
	if cfg.Cache.PersistPath != "" {
		store, err = badgerstore.Open(badgerstore.Options{Path: cfg.Cache.PersistPath})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open cache store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing cache store")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cs := buildCaches(cfg.Cache, store)
	registry := cache.NewRegistry()
	for _, c := range cs.all() {
		registry.MustRegister(c)
	}
	if store != nil {
		restoreCaches(ctx, cs.all())
	}

	// Provider clients, each behind its own circuit breaker
	google := places.NewGoogleClient(cfg.Google, cfg.Breaker)
	model := llm.NewClient(cfg.LLM, cfg.Breaker)
	newsClient := news.NewClient(cfg.News, cfg.Breaker)
	logProviders(map[string]bool{
		"google":  google.Configured(),
		"llm":     model.Configured(),
		"newsapi": newsClient.Configured(),
	})

	promptCost, completionCost := model.Pricing()
	handler := api.NewHandler(api.Deps{
		Config: cfg,
		Nearby: places.NewAINearbyService(model, google, cs.placesAI),
		Enrichment: places.NewEnrichmentService(model, cs.enrichment, places.EnrichmentOptions{
			FallbackTTL:         cfg.Cache.FallbackTTL,
			PromptCostPer1K:     promptCost,
			CompletionCostPer1K: completionCost,
		}),
		Search:   places.NewSearchService(google, cs.search, cs.geo),
		News:     news.NewService(newsClient, cs.news),
		Registry: registry,
		Providers: map[string]api.ProviderStatus{
			"google":  google,
			"llm":     model,
			"newsapi": newsClient,
		},
		Version: version,
	})
	router := api.NewRouter(handler, nil)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	for _, c := range cs.all() {
		if c.SweepInterval() <= 0 {
			continue
		}
		tree.AddCacheService(cache.NewSweeper(c, c.SweepInterval()))
	}
	if store != nil {
		tree.AddCacheService(services.NewStoreGCService(store, 10*time.Minute))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))

	// === START SUPERVISOR TREE ===

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The supervisor's own Timeout bounds how long each service may take
	// to stop; allow a little more before giving up on the tree.
	waitForShutdown(ctx, errCh, cfg.Server.ShutdownTimeout+10*time.Second)

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// waitForShutdown blocks until the supervisor tree returns. ServeBackground
// delivers exactly one value and never closes the channel, so it is
// received once. After ctx is canceled the wait is bounded by timeout.
func waitForShutdown(ctx context.Context, errCh <-chan error, timeout time.Duration) {
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		return
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case <-timer.C:
		logging.Warn().Dur("timeout", timeout).Msg("Supervisor did not stop in time, exiting anyway")
	}
}

// restoreCaches reloads persisted entries. A failed restore leaves that
// cache empty; it never blocks startup.
func restoreCaches(ctx context.Context, all []managedCache) {
	for _, c := range all {
		n, err := c.Restore(ctx)
		if err != nil {
			logging.Warn().Err(err).Str("cache", c.Name()).Msg("Failed to restore cache snapshot")
			continue
		}
		if n > 0 {
			logging.Info().Int("entries", n).Str("cache", c.Name()).Msg("Cache restored from snapshot")
		}
	}
}

func logProviders(configured map[string]bool) {
	for name, ok := range configured {
		if ok {
			logging.Info().Str("provider", name).Msg("Provider configured")
		} else {
			logging.Warn().Str("provider", name).Msg("Provider not configured")
		}
	}
}
