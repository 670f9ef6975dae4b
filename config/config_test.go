package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("AUDIO_DIR", filepath.Join(dir, "audio"))
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "data", "test.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.ServerPort)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Deepgram.Model != "nova-2" {
		t.Errorf("expected default model nova-2, got %s", cfg.Deepgram.Model)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("AUDIO_DIR", filepath.Join(dir, "audio"))
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "data", "test.db"))
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("READ_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ServerPort != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %v", cfg.ReadTimeout)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limit disabled")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("AUDIO_DIR", filepath.Join(dir, "audio"))
	t.Setenv("DB_TYPE", "oracle")

	if _, err := Load(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
