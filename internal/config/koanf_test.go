// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Security.AdminSecret != "" {
		t.Errorf("Security.AdminSecret should be empty by default, got %q", cfg.Security.AdminSecret)
	}

	// Observed per-route lifetimes
	if cfg.Cache.PlacesAI.TTL != time.Hour {
		t.Errorf("Cache.PlacesAI.TTL = %v, want 1h", cfg.Cache.PlacesAI.TTL)
	}
	if cfg.Cache.Enrichment.TTL != 30*24*time.Hour {
		t.Errorf("Cache.Enrichment.TTL = %v, want 720h", cfg.Cache.Enrichment.TTL)
	}
	if cfg.Cache.News.TTL != time.Hour {
		t.Errorf("Cache.News.TTL = %v, want 1h", cfg.Cache.News.TTL)
	}
	if cfg.Cache.Geo.TTL != 30*time.Minute || cfg.Cache.Geo.MaxEntries != 100 || cfg.Cache.Geo.Policy != "fifo" {
		t.Errorf("Cache.Geo = %+v, want 30m/100/fifo", cfg.Cache.Geo)
	}
	if cfg.Cache.FallbackTTL != 10*time.Minute {
		t.Errorf("Cache.FallbackTTL = %v, want 10m", cfg.Cache.FallbackTTL)
	}

	if cfg.Breaker.ConsecutiveFailures != 5 || cfg.Breaker.MinRequests != 10 {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"GOOGLE_PLACES_API_KEY", "google.api_key"},
		{"AZURE_OPENAI_API_KEY", "llm.api_key"},
		{"AZURE_OPENAI_ENDPOINT", "llm.endpoint"},
		{"NEWS_API_KEY", "news.api_key"},
		{"ADMIN_SECRET", "security.admin_secret"},
		{"HTTP_PORT", "server.port"},
		{"PORT", "server.port"},
		{"GEO_CACHE_MAX_ENTRIES", "cache.geo.max_entries"},
		{"CACHE_FALLBACK_TTL", "cache.fallback_ttl"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 6000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	// A missing CONFIG_PATH falls through to the default search paths.
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	origPaths := DefaultConfigPaths
	DefaultConfigPaths = []string{filepath.Join(dir, "nope.yaml")}
	defer func() { DefaultConfigPaths = origPaths }()
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}
}

// isolateConfig points the loader at an empty directory so no stray config
// file on the test machine changes the result.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origPaths := DefaultConfigPaths
	DefaultConfigPaths = []string{filepath.Join(dir, "config.yaml")}
	t.Cleanup(func() { DefaultConfigPaths = origPaths })
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateConfig(t)
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("ADMIN_SECRET", "s3cr3t-value")
	t.Setenv("GOOGLE_PLACES_API_KEY", "g-key")
	t.Setenv("NEWS_API_KEY", "n-key")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("GEO_CACHE_TTL", "45m")
	t.Setenv("CACHE_FALLBACK_TTL", "5m")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.AdminSecret != "s3cr3t-value" {
		t.Errorf("Security.AdminSecret = %q", cfg.Security.AdminSecret)
	}
	if !cfg.AdminEnabled() {
		t.Error("AdminEnabled() = false with a secret set")
	}
	if cfg.Google.APIKey != "g-key" || cfg.News.APIKey != "n-key" {
		t.Errorf("provider keys = %q / %q", cfg.Google.APIKey, cfg.News.APIKey)
	}
	wantOrigins := []string{"https://a.example.org", "https://b.example.org"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, wantOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
	if cfg.Cache.Geo.TTL != 45*time.Minute {
		t.Errorf("Cache.Geo.TTL = %v, want 45m", cfg.Cache.Geo.TTL)
	}
	if cfg.Cache.FallbackTTL != 5*time.Minute {
		t.Errorf("Cache.FallbackTTL = %v, want 5m", cfg.Cache.FallbackTTL)
	}
	// Untouched values keep their defaults.
	if cfg.Cache.Geo.MaxEntries != 100 {
		t.Errorf("Cache.Geo.MaxEntries = %d, want 100", cfg.Cache.Geo.MaxEntries)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
cache:
  places_ai:
    ttl: 2h
    max_entries: 50
    policy: fifo
  persist_path: /tmp/tb-cache
llm:
  provider: openai
  api_key: file-key
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Cache.PlacesAI.TTL != 2*time.Hour || cfg.Cache.PlacesAI.MaxEntries != 50 || cfg.Cache.PlacesAI.Policy != "fifo" {
		t.Errorf("Cache.PlacesAI = %+v", cfg.Cache.PlacesAI)
	}
	if cfg.Cache.PersistPath != "/tmp/tb-cache" {
		t.Errorf("Cache.PersistPath = %q", cfg.Cache.PersistPath)
	}
	if cfg.LLM.Provider != "openai" || !cfg.LLM.Configured() {
		t.Errorf("LLM = %+v, Configured() = %v", cfg.LLM, cfg.LLM.Configured())
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000 (env wins)", cfg.Server.Port)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"HTTP_PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad policy", map[string]string{"GEO_CACHE_POLICY": "random"}},
		{"zero ttl", map[string]string{"NEWS_CACHE_TTL": "0s"}},
		{"bad provider", map[string]string{"LLM_PROVIDER": "anthropic"}},
		{"placeholder secret", map[string]string{"ADMIN_SECRET": "changeme"}},
		{"fallback longer than enrichment", map[string]string{"CACHE_FALLBACK_TTL": "1000h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() expected validation error")
			}
		})
	}
}
