package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Cache.Dir != "cache_history" {
		t.Errorf("expected default cache dir, got %q", cfg.Cache.Dir)
	}
	if cfg.Cache.SchemaVersion != "1.0" {
		t.Errorf("expected default schema version, got %q", cfg.Cache.SchemaVersion)
	}
	if cfg.Cache.Engine != "json" {
		t.Errorf("expected default engine json, got %q", cfg.Cache.Engine)
	}
	if cfg.Cache.MaxAgeDays != 0 {
		t.Errorf("expected default max age 0, got %d", cfg.Cache.MaxAgeDays)
	}
	if cfg.Fetch.MaxWorkers != 6 {
		t.Errorf("expected default 6 workers, got %d", cfg.Fetch.MaxWorkers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
cache:
  dir: /tmp/prices
  engine: sqlite
  schema_version: "2.1"
  max_age_days: 2
fetch:
  max_workers: 3
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MAX_WORKERS", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Dir != "/tmp/prices" || cfg.Cache.Engine != "sqlite" {
		t.Errorf("yaml values not applied: %+v", cfg.Cache)
	}
	if cfg.Cache.SchemaVersion != "2.1" || cfg.Cache.MaxAgeDays != 2 {
		t.Errorf("yaml values not applied: %+v", cfg.Cache)
	}
	if cfg.Fetch.MaxWorkers != 9 {
		t.Errorf("env override must win, got %d", cfg.Fetch.MaxWorkers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"bad engine", func(c *Config) { c.Cache.Engine = "parquet" }, false},
		{"negative age", func(c *Config) { c.Cache.MaxAgeDays = -1 }, false},
		{"zero workers", func(c *Config) { c.Fetch.MaxWorkers = 0 }, false},
		{"empty dir", func(c *Config) { c.Cache.Dir = "" }, false},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: expected ok=%v, got %v", tt.name, tt.ok, err)
		}
	}
}
