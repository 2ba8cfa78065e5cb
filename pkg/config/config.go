package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the runtime configuration of the demo server. Port and root
// are explicit values handed to server construction, never package globals.
type Config struct {
	Server     ServerConfig
	RateLimit  RateLimitConfig
	LiveReload LiveReloadConfig

	GzipEnabled bool
	LogLevel    string
}

// ServerConfig controls the listener and shutdown behavior.
type ServerConfig struct {
	Port            string
	Root            string
	ShutdownTimeout time.Duration
}

// RateLimitConfig controls the optional per-IP limiter. Disabled by default:
// the server is a local development tool.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// LiveReloadConfig controls the file watcher and reload websocket.
type LiveReloadConfig struct {
	Enabled      bool
	PollInterval time.Duration
}

// Load reads configuration from the environment. A .env file is honored when
// present and silently skipped otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Root:            getEnv("SERVE_ROOT", "."),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", false),
			RPS:     getEnvFloat("RATE_LIMIT_RPS", 100),
			Burst:   getEnvInt("RATE_LIMIT_BURST", 200),
		},
		LiveReload: LiveReloadConfig{
			Enabled:      getEnvBool("LIVE_RELOAD_ENABLED", false),
			PollInterval: getEnvDuration("LIVE_RELOAD_POLL_INTERVAL", time.Second),
		},
		GzipEnabled: getEnvBool("GZIP_ENABLED", true),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return nil, fmt.Errorf("SERVER_PORT must be numeric, got %q", cfg.Server.Port)
	}

	info, err := os.Stat(cfg.Server.Root)
	if err != nil {
		return nil, fmt.Errorf("SERVE_ROOT %q is not accessible: %w", cfg.Server.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("SERVE_ROOT %q is not a directory", cfg.Server.Root)
	}

	if cfg.Server.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive")
		}
		if cfg.RateLimit.Burst <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive")
		}
	}

	if cfg.LiveReload.Enabled && cfg.LiveReload.PollInterval <= 0 {
		return nil, fmt.Errorf("LIVE_RELOAD_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port, bound on all
// interfaces.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
