package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVE_ROOT", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want :8080", cfg.Server.Addr())
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be disabled by default")
	}
	if cfg.LiveReload.Enabled {
		t.Error("live reload should be disabled by default")
	}
	if !cfg.GzipEnabled {
		t.Error("gzip should be enabled by default")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVE_ROOT", t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("LIVE_RELOAD_ENABLED", "true")
	t.Setenv("LIVE_RELOAD_POLL_INTERVAL", "250ms")
	t.Setenv("GZIP_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Server.Port)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 10 || cfg.RateLimit.Burst != 20 {
		t.Errorf("RateLimit = %+v, want enabled 10/20", cfg.RateLimit)
	}
	if !cfg.LiveReload.Enabled || cfg.LiveReload.PollInterval != 250*time.Millisecond {
		t.Errorf("LiveReload = %+v, want enabled 250ms", cfg.LiveReload)
	}
	if cfg.GzipEnabled {
		t.Error("GZIP_ENABLED=false should disable gzip")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadValidation(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non-numeric port", env: map[string]string{"SERVE_ROOT": root, "SERVER_PORT": "http"}},
		{name: "missing root", env: map[string]string{"SERVE_ROOT": filepath.Join(root, "nope")}},
		{name: "zero rps", env: map[string]string{"SERVE_ROOT": root, "RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_RPS": "0"}},
		{name: "zero burst", env: map[string]string{"SERVE_ROOT": root, "RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_BURST": "0"}},
		{name: "negative shutdown timeout", env: map[string]string{"SERVE_ROOT": root, "SHUTDOWN_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should have failed")
			}
		})
	}
}

func TestRootMustBeDirectory(t *testing.T) {
	t.Setenv("SERVE_ROOT", "config.go")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a file as SERVE_ROOT")
	}
}
