package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Defaults applied by setDefaults.
const (
	DefaultBaseURL       = "https://imdb236.p.rapidapi.com"
	DefaultAPIHost       = "imdb236.p.rapidapi.com"
	DefaultSort          = "year"
	DefaultLoadMoreDelay = 1500 * time.Millisecond
	DefaultLoadMoreBatch = 4
	DefaultLogLevel      = "info"
)

// Config represents the main application configuration
type Config struct {
	// Upstream movie API
	API APIConfig `yaml:"api"`

	// List behavior shared by all frontends
	Browse BrowseConfig `yaml:"browse"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// APIConfig holds the RapidAPI connection settings
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Key     string        `yaml:"key"`
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout,omitempty"` // 0 = net/http default
}

// BrowseConfig holds list defaults
type BrowseConfig struct {
	Sort          string         `yaml:"sort"`                      // "year", "rating", "title"
	LoadMoreDelay *time.Duration `yaml:"load_more_delay,omitempty"` // nil = default, 0s = instant
	LoadMoreBatch int            `yaml:"load_more_batch"`
}

// Delay returns the load-more delay, or DefaultLoadMoreDelay when unset.
func (b BrowseConfig) Delay() time.Duration {
	if b.LoadMoreDelay == nil {
		return DefaultLoadMoreDelay
	}
	return *b.LoadMoreDelay
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// Load loads configuration from an optional .env file, an optional YAML file
// and environment variables, in that order of increasing precedence.
// An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		if err := validateConfigPath(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from a .env file without overriding ones already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// validateConfigPath checks that path exists and is a regular file.
func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() error {
	// API
	if v := os.Getenv("REELVIEW_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("REELVIEW_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("REELVIEW_API_HOST"); v != "" {
		c.API.Host = v
	}
	if v := os.Getenv("REELVIEW_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REELVIEW_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}

	// Browse
	if v := os.Getenv("REELVIEW_BROWSE_SORT"); v != "" {
		c.Browse.Sort = v
	}
	if v := os.Getenv("REELVIEW_LOAD_MORE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REELVIEW_LOAD_MORE_DELAY: %w", err)
		}
		c.Browse.LoadMoreDelay = &d
	}
	if v := os.Getenv("REELVIEW_LOAD_MORE_BATCH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REELVIEW_LOAD_MORE_BATCH: %w", err)
		}
		c.Browse.LoadMoreBatch = n
	}

	// Telegram
	if v := os.Getenv("REELVIEW_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	if v := os.Getenv("REELVIEW_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	return nil
}

// setDefaults fills in zero values.
func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Host == "" {
		c.API.Host = DefaultAPIHost
	}
	if c.Browse.Sort == "" {
		c.Browse.Sort = DefaultSort
	}
	if c.Browse.LoadMoreDelay == nil {
		d := DefaultLoadMoreDelay
		c.Browse.LoadMoreDelay = &d
	}
	if c.Browse.LoadMoreBatch == 0 {
		c.Browse.LoadMoreBatch = DefaultLoadMoreBatch
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = DefaultLogLevel
	}
}

// Validate fills in defaults and validates the configuration
func (c *Config) Validate() error {
	c.setDefaults()

	if strings.TrimSpace(c.API.Key) == "" {
		return fmt.Errorf("api.key is required (set it in the config file or REELVIEW_API_KEY)")
	}
	if err := validateURL(c.API.BaseURL, "api.base_url"); err != nil {
		return err
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	switch strings.ToLower(c.Browse.Sort) {
	case "year", "rating", "title", "name":
	default:
		return fmt.Errorf("browse.sort must be one of year, rating, title")
	}
	if c.Browse.Delay() < 0 {
		return fmt.Errorf("browse.load_more_delay must not be negative")
	}
	if c.Browse.LoadMoreBatch < 0 {
		return fmt.Errorf("browse.load_more_batch must not be negative")
	}

	if c.Telegram != nil && strings.TrimSpace(c.Telegram.BotToken) == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}

	return nil
}

// validateURL checks that raw is an absolute http(s) URL with a host.
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}
