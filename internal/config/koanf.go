// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/travelbuddy/internal/upstream"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/travelbuddy/config.yaml",
	"/etc/travelbuddy/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second, // LLM misses can take a while
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			AdminSecret:       "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Cache: CacheConfig{
			PlacesAI: CacheSpec{
				TTL:           time.Hour,
				MaxEntries:    1000,
				Policy:        "lru",
				SweepInterval: 5 * time.Minute,
			},
			Enrichment: CacheSpec{
				TTL:           30 * 24 * time.Hour,
				MaxEntries:    5000,
				Policy:        "lru",
				SweepInterval: time.Hour,
				Persist:       true,
			},
			Search: CacheSpec{
				TTL:           time.Hour,
				MaxEntries:    1000,
				Policy:        "lru",
				SweepInterval: 5 * time.Minute,
			},
			Geo: CacheSpec{
				TTL:           30 * time.Minute,
				MaxEntries:    100,
				Policy:        "fifo",
				SweepInterval: 5 * time.Minute,
			},
			News: CacheSpec{
				TTL:           time.Hour,
				MaxEntries:    200,
				Policy:        "lru",
				SweepInterval: 5 * time.Minute,
			},
			FallbackTTL: 10 * time.Minute,
			PersistPath: "",
		},
		Google: GoogleConfig{
			APIKey:            "",
			BaseURL:           "https://maps.googleapis.com",
			Timeout:           10 * time.Second,
			RequestsPerMinute: 0,
		},
		LLM: LLMConfig{
			Provider:            "azure",
			Endpoint:            "",
			APIKey:              "",
			Deployment:          "",
			APIVersion:          "2024-02-15-preview",
			Model:               "gpt-4o-mini",
			Temperature:         0.7,
			MaxTokens:           2000,
			Timeout:             30 * time.Second,
			RequestsPerMinute:   60,
			PromptCostPer1K:     0.00015,
			CompletionCostPer1K: 0.0006,
		},
		News: NewsConfig{
			APIKey:  "",
			BaseURL: "https://newsapi.org",
			Timeout: 10 * time.Second,
		},
		Breaker: upstream.DefaultBreakerConfig(),
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Built-in defaults (lowest priority)
//  2. Config file (config.yaml or the path in CONFIG_PATH)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Server
	"port":                  "server.port",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"admin_secret":        "security.admin_secret",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Caches
	"places_ai_cache_ttl":         "cache.places_ai.ttl",
	"places_ai_cache_max_entries": "cache.places_ai.max_entries",
	"places_ai_cache_policy":      "cache.places_ai.policy",
	"enrichment_cache_ttl":        "cache.enrichment.ttl",
	"enrichment_cache_max":        "cache.enrichment.max_entries",
	"enrichment_cache_policy":     "cache.enrichment.policy",
	"enrichment_cache_persist":    "cache.enrichment.persist",
	"search_cache_ttl":            "cache.search.ttl",
	"search_cache_max_entries":    "cache.search.max_entries",
	"geo_cache_ttl":               "cache.geo.ttl",
	"geo_cache_max_entries":       "cache.geo.max_entries",
	"geo_cache_policy":            "cache.geo.policy",
	"news_cache_ttl":              "cache.news.ttl",
	"news_cache_max_entries":      "cache.news.max_entries",
	"cache_fallback_ttl":          "cache.fallback_ttl",
	"cache_persist_path":          "cache.persist_path",

	// Google Places
	"google_places_api_key":      "google.api_key",
	"google_maps_base_url":       "google.base_url",
	"google_timeout":             "google.timeout",
	"google_requests_per_minute": "google.requests_per_minute",

	// LLM
	"llm_provider":               "llm.provider",
	"azure_openai_endpoint":      "llm.endpoint",
	"azure_openai_api_key":       "llm.api_key",
	"azure_openai_deployment":    "llm.deployment",
	"azure_openai_api_version":   "llm.api_version",
	"llm_model":                  "llm.model",
	"llm_temperature":            "llm.temperature",
	"llm_max_tokens":             "llm.max_tokens",
	"llm_timeout":                "llm.timeout",
	"llm_requests_per_minute":    "llm.requests_per_minute",
	"llm_prompt_cost_per_1k":     "llm.prompt_cost_per_1k",
	"llm_completion_cost_per_1k": "llm.completion_cost_per_1k",

	// NewsAPI
	"news_api_key":      "news.api_key",
	"news_api_base_url": "news.base_url",
	"news_api_timeout":  "news.timeout",

	// Circuit breaker
	"breaker_min_requests":         "breaker.min_requests",
	"breaker_failure_ratio":        "breaker.failure_ratio",
	"breaker_consecutive_failures": "breaker.consecutive_failures",
	"breaker_open_timeout":         "breaker.open_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - GOOGLE_PLACES_API_KEY -> google.api_key
//   - AZURE_OPENAI_API_KEY -> llm.api_key
//   - NEWS_API_KEY -> news.api_key
//   - ADMIN_SECRET -> security.admin_secret
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
