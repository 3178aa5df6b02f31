package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Cache struct {
		Dir           string `yaml:"dir"`
		SchemaVersion string `yaml:"schema_version"`
		Engine        string `yaml:"engine"` // "json" or "sqlite"
		MaxAgeDays    int    `yaml:"max_age_days"`
	} `yaml:"cache"`
	Fetch struct {
		MaxWorkers int    `yaml:"max_workers"`
		Proxy      string `yaml:"proxy"`
	} `yaml:"fetch"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("CACHE_ENGINE"); v != "" {
		cfg.Cache.Engine = v
	}
	if v := os.Getenv("CACHE_SCHEMA_VERSION"); v != "" {
		cfg.Cache.SchemaVersion = v
	}
	if v := os.Getenv("CACHE_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxAgeDays = n
		}
	}
	if v := os.Getenv("MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.MaxWorkers = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Fetch.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}

	// Defaults
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache_history"
	}
	if cfg.Cache.SchemaVersion == "" {
		cfg.Cache.SchemaVersion = "1.0"
	}
	if cfg.Cache.Engine == "" {
		cfg.Cache.Engine = "json"
	}
	if cfg.Fetch.MaxWorkers == 0 {
		cfg.Fetch.MaxWorkers = 6
	}
	if cfg.Schedule.RefreshCron == "" {
		// Weekday evenings, after US close.
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	if c.Cache.Engine != "json" && c.Cache.Engine != "sqlite" {
		return fmt.Errorf("cache.engine must be json or sqlite, got %q", c.Cache.Engine)
	}
	if c.Cache.MaxAgeDays < 0 {
		return fmt.Errorf("cache.max_age_days must not be negative")
	}
	if c.Fetch.MaxWorkers <= 0 {
		return fmt.Errorf("fetch.max_workers must be positive")
	}
	return nil
}
