package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Golden.DefaultPath != DefaultGoldenPath {
		t.Errorf("expected default golden path, got %s", cfg.Golden.DefaultPath)
	}
	if cfg.Online.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %s", cfg.Online.Timeout)
	}
	if cfg.Fetch.MaxWorkers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Fetch.MaxWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("online.timeout", "500ms")
	v.Set("cache.retention_days", 7)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Online.Timeout != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", cfg.Online.Timeout)
	}

	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := cfg.RetentionCutoff(now); !got.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected cutoff: %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty golden path", func(c *Config) { c.Golden.DefaultPath = "" }, "golden.default_path"},
		{"negative retention", func(c *Config) { c.Cache.RetentionDays = -1 }, "cache.retention_days"},
		{"zero timeout", func(c *Config) { c.Online.Timeout = 0 }, "online.timeout"},
		{"zero workers", func(c *Config) { c.Fetch.MaxWorkers = 0 }, "fetch.max_workers"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected %q in error, got: %v", tt.errMsg, err)
			}
		})
	}

	cfg := Default()
	cfg.Log.Level = "DEBUG"
	if err := Validate(&cfg); err != nil {
		t.Errorf("log level should be case insensitive: %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(&buf); err != nil {
		t.Fatalf("written config is not valid TOML: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *cfg, Default())
	}
}
