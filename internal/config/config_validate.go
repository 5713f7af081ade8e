// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/travelbuddy/internal/cache"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateCaches(); err != nil {
		return err
	}

	if err := c.validateProviders(); err != nil {
		return err
	}

	return c.validateBreaker()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.AdminSecret != "" && containsPlaceholder(c.Security.AdminSecret) {
		return fmt.Errorf("ADMIN_SECRET contains a placeholder value; set a real secret or leave it empty to disable admin routes")
	}
	return c.validateRateLimits()
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// AdminEnabled reports whether the admin routes can be used at all.
func (c *Config) AdminEnabled() bool {
	return c.Security.AdminSecret != ""
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateCaches checks every cache spec and the fallback TTL.
func (c *Config) validateCaches() error {
	specs := []struct {
		name string
		spec CacheSpec
	}{
		{"places_ai", c.Cache.PlacesAI},
		{"enrichment", c.Cache.Enrichment},
		{"search", c.Cache.Search},
		{"geo", c.Cache.Geo},
		{"news", c.Cache.News},
	}

	for _, s := range specs {
		if s.spec.TTL <= 0 {
			return fmt.Errorf("cache.%s.ttl must be positive, got %v", s.name, s.spec.TTL)
		}
		if s.spec.MaxEntries < 0 {
			return fmt.Errorf("cache.%s.max_entries must not be negative", s.name)
		}
		if s.spec.SweepInterval < 0 {
			return fmt.Errorf("cache.%s.sweep_interval must not be negative", s.name)
		}
		if _, err := cache.ParsePolicy(s.spec.Policy); err != nil {
			return fmt.Errorf("cache.%s.policy: %w", s.name, err)
		}
	}

	if c.Cache.FallbackTTL <= 0 {
		return fmt.Errorf("CACHE_FALLBACK_TTL must be positive")
	}
	if c.Cache.FallbackTTL > c.Cache.Enrichment.TTL {
		return fmt.Errorf("CACHE_FALLBACK_TTL (%v) must not exceed the enrichment TTL (%v)", c.Cache.FallbackTTL, c.Cache.Enrichment.TTL)
	}
	return nil
}

// validLLMProviders defines the supported chat-completion dialects
var validLLMProviders = map[string]bool{
	"azure":  true,
	"openai": true,
}

// validateProviders validates the external API settings. Missing keys are
// allowed: the matching routes degrade or answer with an error.
func (c *Config) validateProviders() error {
	if err := validateHTTPURL(c.Google.BaseURL, "GOOGLE_MAPS_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.News.BaseURL, "NEWS_API_BASE_URL"); err != nil {
		return err
	}

	if !validLLMProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of: azure, openai")
	}
	if c.LLM.Endpoint != "" {
		if err := validateHTTPURL(c.LLM.Endpoint, "AZURE_OPENAI_ENDPOINT"); err != nil {
			return err
		}
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("LLM_MAX_TOKENS must be at least 1")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.LLM.RequestsPerMinute < 0 || c.Google.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	if c.LLM.PromptCostPer1K < 0 || c.LLM.CompletionCostPer1K < 0 {
		return fmt.Errorf("LLM token prices must not be negative")
	}
	return nil
}

// validateBreaker validates the shared circuit breaker settings.
func (c *Config) validateBreaker() error {
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("BREAKER_OPEN_TIMEOUT must be positive")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
	"ADMIN123",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
