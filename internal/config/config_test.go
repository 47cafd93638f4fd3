package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitplane/texrboard/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg == nil {
		t.Fatal("Default returned nil")
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Server.Port != 6006 {
		t.Errorf("Server.Port = %d, want 6006", cfg.Server.Port)
	}
	if cfg.Refresh.IntervalSeconds < 1 {
		t.Errorf("Refresh.IntervalSeconds = %d, want >= 1", cfg.Refresh.IntervalSeconds)
	}
	if cfg.BaseURL() != "http://localhost:6006" {
		t.Errorf("BaseURL = %q, want http://localhost:6006", cfg.BaseURL())
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if cfg.Server.Port != 6006 {
		t.Errorf("missing file should produce defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
host = "tb.internal"
port = 8080

[refresh]
interval_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.BaseURL() != "http://tb.internal:8080" {
		t.Errorf("BaseURL = %q, want http://tb.internal:8080", cfg.BaseURL())
	}
	if cfg.Refresh.IntervalSeconds != 5 {
		t.Errorf("IntervalSeconds = %d, want 5", cfg.Refresh.IntervalSeconds)
	}
	// Unset sections keep their defaults.
	if cfg.Server.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want default 10", cfg.Server.TimeoutSeconds)
	}
	if !cfg.Appearance.ShowProcessStats {
		t.Error("ShowProcessStats should default to true")
	}
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = -1

[refresh]
interval_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != 6006 {
		t.Errorf("invalid port should fall back to default, got %d", cfg.Server.Port)
	}
	if cfg.Refresh.IntervalSeconds != 30 {
		t.Errorf("invalid interval should fall back to default, got %d", cfg.Refresh.IntervalSeconds)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.Server.Port != 6006 {
		t.Error("parse failure should still return usable defaults")
	}
}
