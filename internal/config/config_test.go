package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "API_URL", "SESSION_PROVIDER", "REDIS_ADDR", "SESSION_TTL"} {
		t.Setenv(key, "") // restores the original value after the test
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"APIURL", cfg.APIURL, "http://localhost:8000"},
		{"SessionProvider", cfg.SessionProvider, "memory"},
		{"RedisAddr", cfg.RedisAddr, ""},
		{"SessionTTL", cfg.SessionTTL, 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("API_URL", "http://embeddings:8000")
	t.Setenv("SESSION_PROVIDER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.APIURL != "http://embeddings:8000" {
		t.Errorf("expected api url override, got %s", cfg.APIURL)
	}
	if cfg.SessionProvider != "redis" || cfg.RedisAddr != "redis:6379" {
		t.Errorf("expected redis session settings, got %s %s", cfg.SessionProvider, cfg.RedisAddr)
	}
}

func TestSessionTTLDuration(t *testing.T) {
	tests := []struct {
		ttl      int
		expected time.Duration
	}{
		{3600, time.Hour},
		{90, 90 * time.Second},
		{0, time.Hour},
		{-5, time.Hour},
	}

	for _, tt := range tests {
		got := Config{SessionTTL: tt.ttl}.SessionTTLDuration()
		if got != tt.expected {
			t.Errorf("ttl %d: got %v, want %v", tt.ttl, got, tt.expected)
		}
	}
}
