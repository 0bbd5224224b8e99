// Package config loads the invsync configuration from an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Quote providers.
const (
	ProviderYahoo = "yahoo"
	ProviderEODHD = "eodhd"
)

// ErrRequired is wrapped by Error when a mandatory field is empty.
var ErrRequired = errors.New("required")

// Config holds the whole invsync configuration.
type Config struct {
	BudgetID      string `yaml:"budget_id"`
	Token         string `yaml:"-"` // Secrets come from the environment only.
	AccountMarker string `yaml:"account_marker"`
	Timezone      string `yaml:"timezone"`

	QuoteProvider string        `yaml:"quote_provider"`
	EODHDKey      string        `yaml:"-"`
	EODHDExchange string        `yaml:"eodhd_exchange"`
	CacheWindow   time.Duration `yaml:"cache_window"`

	YNABBaseURL  string `yaml:"ynab_base_url"`
	YahooBaseURL string `yaml:"yahoo_base_url"`
	EODHDBaseURL string `yaml:"eodhd_base_url"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	LogJSON  bool   `yaml:"log_json"`

	// Schedule is the cron expression of the schedule command.
	Schedule string `yaml:"schedule"`
	DryRun   bool   `yaml:"dry_run"`
}

// Error reports an invalid configuration field.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %v", e.Field, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		AccountMarker: "INVESTMENT_TO_TRACK",
		QuoteProvider: ProviderYahoo,
		EODHDExchange: "US",
		LogLevel:      "info",
		Schedule:      "0 18 * * 1-5",
	}
}

// Load reads the YAML file at path, if path is not empty, then overrides it
// with the environment. A .env file in the working directory is loaded into
// the environment first, without overriding variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	// Missing .env is fine.
	_ = godotenv.Load()

	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overrideWithEnv() error {
	c.Token = getEnv("YNAB_API_TOKEN", c.Token)
	c.BudgetID = getEnv("YNAB_BUDGET_ID", c.BudgetID)
	c.EODHDKey = getEnv("EODHD_API_KEY", c.EODHDKey)
	c.AccountMarker = getEnv("INVEST_ACCOUNT_MARKER", c.AccountMarker)
	c.QuoteProvider = getEnv("INVEST_QUOTE_PROVIDER", c.QuoteProvider)
	c.Timezone = getEnv("INVEST_TIMEZONE", c.Timezone)
	c.LogLevel = getEnv("INVEST_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("INVEST_LOG_FILE", c.LogFile)
	c.Schedule = getEnv("INVEST_SCHEDULE", c.Schedule)
	c.YNABBaseURL = getEnv("YNAB_BASE_URL", c.YNABBaseURL)

	var err error
	if c.DryRun, err = getEnvAsBool("INVEST_DRY_RUN", c.DryRun); err != nil {
		return err
	}
	if c.CacheWindow, err = getEnvAsDuration("INVEST_CACHE_WINDOW", c.CacheWindow); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration required to run a sync.
func (c *Config) Validate() error {
	if c.Token == "" {
		return &Error{Field: "YNAB_API_TOKEN", Err: ErrRequired}
	}
	if c.BudgetID == "" {
		return &Error{Field: "YNAB_BUDGET_ID", Err: ErrRequired}
	}
	if c.AccountMarker == "" {
		return &Error{Field: "account_marker", Err: ErrRequired}
	}
	switch c.QuoteProvider {
	case ProviderYahoo:
	case ProviderEODHD:
		if c.EODHDKey == "" {
			return &Error{Field: "EODHD_API_KEY", Err: ErrRequired}
		}
	default:
		return &Error{Field: "quote_provider", Err: fmt.Errorf("unknown provider %q, want %q or %q", c.QuoteProvider, ProviderYahoo, ProviderEODHD)}
	}
	if _, err := c.Location(); err != nil {
		return &Error{Field: "timezone", Err: err}
	}
	return nil
}

// Location returns the time zone of the tool, the local one if unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &Error{Field: key, Err: err}
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &Error{Field: key, Err: err}
	}
	return d, nil
}
