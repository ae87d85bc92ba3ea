package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Upstream.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PredictTimeout != 10*time.Second {
		t.Errorf("Upstream.PredictTimeout = %v, want 10s", cfg.Upstream.PredictTimeout)
	}
	if cfg.Upstream.RiskTimeout != 5*time.Second {
		t.Errorf("Upstream.RiskTimeout = %v, want 5s", cfg.Upstream.RiskTimeout)
	}
	if cfg.Redis.Host != "localhost" || cfg.Redis.Port != 6379 {
		t.Errorf("Redis defaults = %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.CORS.AllowedOrigins != "*" {
		t.Errorf("CORS.AllowedOrigins = %q, want *", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MLHEALTH_SERVER_PORT", "9090")
	t.Setenv("MLHEALTH_UPSTREAM_BASE_URL", "http://serving.internal:8000")
	t.Setenv("MLHEALTH_UPSTREAM_PREDICT_TIMEOUT", "3s")
	t.Setenv("MLHEALTH_REDIS_HOST", "redis.internal")
	t.Setenv("MLHEALTH_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Upstream.BaseURL != "http://serving.internal:8000" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PredictTimeout != 3*time.Second {
		t.Errorf("Upstream.PredictTimeout = %v, want 3s", cfg.Upstream.PredictTimeout)
	}
	if cfg.Redis.Host != "redis.internal" {
		t.Errorf("Redis.Host = %q", cfg.Redis.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("MLHEALTH_UPSTREAM_RISK_TIMEOUT", "0s")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() accepted zero risk timeout")
	}
}
