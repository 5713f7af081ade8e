// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

/*
Package config provides centralized configuration management for TravelBuddy.

Configuration is layered with Koanf:
 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: config.yaml, config.yml, /etc/travelbuddy/config.yaml,
    or the path in CONFIG_PATH
 3. Environment variables (highest priority)

# Configuration Structure

  - ServerConfig: listen address, timeouts, environment
  - SecurityConfig: admin secret, CORS origins, per-IP rate limit
  - LoggingConfig: level, format, caller
  - CacheConfig: one CacheSpec per cache (places_ai, enrichment, search,
    geo, news), the enrichment fallback TTL and the optional Badger path
  - GoogleConfig, LLMConfig, NewsConfig: external providers
  - Breaker: circuit breaker thresholds shared by the provider clients

# Environment Variables

Only the names listed in envMappings are read. The most common ones:

  - HTTP_PORT / PORT: listen port (default: 5000)
  - ADMIN_SECRET: shared secret for /api/admin and cache DELETE routes (no default)
  - GOOGLE_PLACES_API_KEY: Google Places and Geocoding key
  - AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT
  - LLM_PROVIDER: azure (default) or openai
  - NEWS_API_KEY: NewsAPI key
  - CACHE_PERSIST_PATH: Badger directory for persistent caches
  - CACHE_FALLBACK_TTL: lifetime of degraded enrichment payloads (default: 10m)
  - LOG_LEVEL, LOG_FORMAT

Example config.yaml:

	server:
	  port: 5000
	cache:
	  geo:
	    ttl: 30m
	    max_entries: 100
	    policy: fifo
	  persist_path: /data/cache
	llm:
	  provider: openai
	  endpoint: https://api.openai.com
	  model: gpt-4o-mini
*/
package config
