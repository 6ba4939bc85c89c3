package config

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultGoldenPath is the repository-relative location of the golden manifest
const DefaultGoldenPath = "test/screenshot/golden.json"

// valid log formats and levels
var (
	validLogFormats = []string{"text", "json"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
)

// Config is the decoded form of config.toml plus VISREG_* environment overrides
type Config struct {
	Golden GoldenConfig `mapstructure:"golden"`
	Pages  PagesConfig  `mapstructure:"pages"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Online OnlineConfig `mapstructure:"online"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

type GoldenConfig struct {
	DefaultPath string `mapstructure:"default_path"`
}

type PagesConfig struct {
	Root    string `mapstructure:"root"`
	BaseURL string `mapstructure:"base_url"`
}

type CacheConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
}

type OnlineConfig struct {
	CheckURL string        `mapstructure:"check_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type FetchConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

type ReportConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Golden: GoldenConfig{DefaultPath: DefaultGoldenPath},
		Pages: PagesConfig{
			Root:    "test/screenshot/pages",
			BaseURL: "http://localhost:8080/pages",
		},
		Cache: CacheConfig{
			Dir:           ".visreg/cache",
			RetentionDays: 30,
		},
		Online: OnlineConfig{
			CheckURL: "https://www.gstatic.com/generate_204",
			Timeout:  2 * time.Second,
		},
		Fetch:  FetchConfig{MaxWorkers: 8},
		Report: ReportConfig{Path: ".visreg/report.json"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers the built-in configuration with viper
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("golden.default_path", d.Golden.DefaultPath)
	v.SetDefault("pages.root", d.Pages.Root)
	v.SetDefault("pages.base_url", d.Pages.BaseURL)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.retention_days", d.Cache.RetentionDays)
	v.SetDefault("online.check_url", d.Online.CheckURL)
	v.SetDefault("online.timeout", d.Online.Timeout.String())
	v.SetDefault("fetch.max_workers", d.Fetch.MaxWorkers)
	v.SetDefault("report.path", d.Report.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate performs all validation on the loaded configuration
func Validate(cfg *Config) error {
	if cfg.Golden.DefaultPath == "" {
		return fmt.Errorf("golden.default_path must not be empty")
	}
	if cfg.Pages.Root == "" {
		return fmt.Errorf("pages.root must not be empty")
	}
	if cfg.Cache.RetentionDays < 0 {
		return fmt.Errorf("cache.retention_days must be >= 0, got: %d", cfg.Cache.RetentionDays)
	}
	if cfg.Online.Timeout <= 0 {
		return fmt.Errorf("online.timeout must be a positive duration (e.g. \"2s\"), got: %s", cfg.Online.Timeout)
	}
	if cfg.Fetch.MaxWorkers < 1 {
		return fmt.Errorf("fetch.max_workers must be at least 1, got: %d", cfg.Fetch.MaxWorkers)
	}
	if cfg.Log.Format != "" && !slices.Contains(validLogFormats, strings.ToLower(cfg.Log.Format)) {
		return fmt.Errorf("log.format must be one of: %v; got: %s", validLogFormats, cfg.Log.Format)
	}
	if cfg.Log.Level != "" && !slices.Contains(validLogLevels, strings.ToLower(cfg.Log.Level)) {
		return fmt.Errorf("log.level must be one of: %v; got: %s", validLogLevels, cfg.Log.Level)
	}
	return nil
}

// RetentionCutoff returns the modification time before which cache entries are pruned
func (c *Config) RetentionCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.Cache.RetentionDays)
}

// WriteDefault encodes the built-in configuration as a config.toml document
func WriteDefault(w io.Writer) error {
	d := Default()
	doc := map[string]any{
		"golden": map[string]any{"default_path": d.Golden.DefaultPath},
		"pages": map[string]any{
			"root":     d.Pages.Root,
			"base_url": d.Pages.BaseURL,
		},
		"cache": map[string]any{
			"dir":            d.Cache.Dir,
			"retention_days": d.Cache.RetentionDays,
		},
		"online": map[string]any{
			"check_url": d.Online.CheckURL,
			"timeout":   d.Online.Timeout.String(),
		},
		"fetch":  map[string]any{"max_workers": d.Fetch.MaxWorkers},
		"report": map[string]any{"path": d.Report.Path},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
	}

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	return nil
}
