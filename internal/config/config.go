// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package config

import (
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig           `koanf:"server"`
	Security SecurityConfig         `koanf:"security"`
	Logging  LoggingConfig          `koanf:"logging"`
	Cache    CacheConfig            `koanf:"cache"`
	Google   GoogleConfig           `koanf:"google"`
	LLM      LLMConfig              `koanf:"llm"`
	News     NewsConfig             `koanf:"news"`
	Breaker  upstream.BreakerConfig `koanf:"breaker"` // Shared by every provider client
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds admin access and request limiting settings
type SecurityConfig struct {
	// AdminSecret guards the cache administration routes. There is no
	// default: when empty, every admin route answers 403.
	AdminSecret       string        `koanf:"admin_secret"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CacheSpec configures one named cache instance.
type CacheSpec struct {
	TTL           time.Duration `koanf:"ttl"`
	MaxEntries    int           `koanf:"max_entries"` // 0 = unbounded
	Policy        string        `koanf:"policy"`      // "fifo" or "lru"
	SweepInterval time.Duration `koanf:"sweep_interval"`
	Persist       bool          `koanf:"persist"` // Write-through to the Badger store when PersistPath is set
}

// Options converts the spec to cache.Options for the named cache.
// The policy must already have passed Validate.
func (s CacheSpec) Options(name string) cache.Options {
	policy, _ := cache.ParsePolicy(s.Policy)
	return cache.Options{
		Name:          name,
		TTL:           s.TTL,
		MaxEntries:    s.MaxEntries,
		Policy:        policy,
		SweepInterval: s.SweepInterval,
	}
}

// CacheConfig holds the per-route cache settings.
type CacheConfig struct {
	PlacesAI   CacheSpec `koanf:"places_ai"`
	Enrichment CacheSpec `koanf:"enrichment"`
	Search     CacheSpec `koanf:"search"`
	Geo        CacheSpec `koanf:"geo"`
	News       CacheSpec `koanf:"news"`

	// FallbackTTL is the lifetime of degraded enrichment payloads.
	FallbackTTL time.Duration `koanf:"fallback_ttl"`

	// PersistPath enables the Badger snapshot store. Empty disables persistence.
	PersistPath string `koanf:"persist_path"`
}

// GoogleConfig holds Google Places and Geocoding API settings
type GoogleConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"` // 0 = unlimited
}

// LLMConfig holds chat-completion endpoint settings.
type LLMConfig struct {
	Provider          string        `koanf:"provider"` // "azure" or "openai"
	Endpoint          string        `koanf:"endpoint"`
	APIKey            string        `koanf:"api_key"`
	Deployment        string        `koanf:"deployment"`  // Azure only
	APIVersion        string        `koanf:"api_version"` // Azure only
	Model             string        `koanf:"model"`       // OpenAI only
	Temperature       float64       `koanf:"temperature"`
	MaxTokens         int           `koanf:"max_tokens"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`

	// Prices in USD per 1000 tokens, used for the enrichment cost estimate.
	PromptCostPer1K     float64 `koanf:"prompt_cost_per_1k"`
	CompletionCostPer1K float64 `koanf:"completion_cost_per_1k"`
}

// Configured reports whether the LLM has the credentials it needs. Azure
// needs an endpoint and deployment; OpenAI falls back to its public endpoint.
func (c LLMConfig) Configured() bool {
	if c.APIKey == "" {
		return false
	}
	if c.Provider == "azure" {
		return c.Endpoint != "" && c.Deployment != ""
	}
	return true
}

// NewsConfig holds NewsAPI settings
type NewsConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// Load reads configuration using layered loading:
// defaults, then an optional config file, then environment variables.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
