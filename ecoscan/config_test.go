package ecoscan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	raw := `
[server]
addr = ":9090"
allowed_origins = ["https://app.example.com"]

[db]
host = "db.internal"
port = 5432
user = "eco"
password = "secret"
database = "ecoscan"

[scanner]
fallback_timeout_ms = 1000
settle_delay_ms = 500
navigate_delay_ms = 250
session_ttl_min = 2
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.DB.Host != "db.internal" {
		t.Errorf("db host = %q", cfg.DB.Host)
	}
	if got := cfg.Scanner.FallbackTimeout(); got != time.Second {
		t.Errorf("fallback timeout = %v, want 1s", got)
	}
	if got := cfg.Scanner.SessionTTL(); got != 2*time.Minute {
		t.Errorf("session ttl = %v, want 2m", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":8081\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	// Absent sections keep their defaults.
	if got := cfg.Scanner.FallbackTimeout(); got != 3*time.Second {
		t.Errorf("fallback timeout = %v, want 3s", got)
	}
	if got := cfg.Scanner.SettleDelay(); got != 2*time.Second {
		t.Errorf("settle delay = %v, want 2s", got)
	}
	if cfg.Server.Addr != ":8081" {
		t.Errorf("addr = %q, want :8081", cfg.Server.Addr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
