package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	EnvironmentsFile string `mapstructure:"environments_file"`
	NotifiersFile    string `mapstructure:"notifiers_file"`
	APIKey           string `mapstructure:"api_key"`

	Query    string `mapstructure:"query"`
	FromDays int    `mapstructure:"from_days"`
	SortBy   string `mapstructure:"sort_by"`

	HTTPTimeoutSeconds  int64         `mapstructure:"http_timeout_seconds"`
	ImageTimeoutSeconds int64         `mapstructure:"image_timeout_seconds"`
	SearchDebounceMs    int64         `mapstructure:"search_debounce_ms"`
	CacheImageFailures  bool          `mapstructure:"cache_image_failures"`
	HTTPTimeout         time.Duration `mapstructure:"-"`
	ImageTimeout        time.Duration `mapstructure:"-"`
	SearchDebounce      time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-news-reader")
	v.SetDefault("app_env", "prod")
	v.SetDefault("log_level", "info")
	v.SetDefault("environments_file", "")
	v.SetDefault("notifiers_file", "")
	v.SetDefault("api_key", "")
	v.SetDefault("query", "apple")
	v.SetDefault("from_days", 7)
	v.SetDefault("sort_by", "publishedAt")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("image_timeout_seconds", 30)
	v.SetDefault("search_debounce_ms", 300)
	v.SetDefault("cache_image_failures", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		return nil, fmt.Errorf("app_env must not be empty")
	}
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if cfg.FromDays <= 0 {
		return nil, fmt.Errorf("invalid from_days (must be positive)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if cfg.ImageTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid image_timeout_seconds (must be positive seconds)")
	}
	if cfg.SearchDebounceMs <= 0 {
		return nil, fmt.Errorf("invalid search_debounce_ms (must be positive milliseconds)")
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.ImageTimeout = time.Duration(cfg.ImageTimeoutSeconds) * time.Second
	cfg.SearchDebounce = time.Duration(cfg.SearchDebounceMs) * time.Millisecond

	return &cfg, nil
}

// From returns the feed date lower bound derived from from_days.
func (c *Config) From(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.FromDays)
}
