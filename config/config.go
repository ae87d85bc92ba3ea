package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port int
}

// UpstreamConfig locates the model-serving API. The base URL is injected
// here once instead of being read from the environment at call sites.
type UpstreamConfig struct {
	BaseURL        string
	PredictTimeout time.Duration
	RiskTimeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig reads configuration from MLHEALTH_* environment variables with
// sensible defaults for local development.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("upstream.base_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream.predict_timeout", "10s")
	v.SetDefault("upstream.risk_timeout", "5s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvPrefix("MLHEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        v.GetString("upstream.base_url"),
			PredictTimeout: v.GetDuration("upstream.predict_timeout"),
			RiskTimeout:    v.GetDuration("upstream.risk_timeout"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("cors.allowed_origins"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL must not be empty")
	}
	if cfg.Upstream.PredictTimeout <= 0 || cfg.Upstream.RiskTimeout <= 0 {
		return nil, fmt.Errorf("upstream timeouts must be positive")
	}

	return cfg, nil
}
