package config

import (
	"fmt"
	"os"
	"strconv"

	"TickerCompare/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Providers accepted in data_source.provider.
const (
	ProviderYahoo   = "yahoo"
	ProviderEODHD   = "eodhd"
	ProviderBarsAPI = "barsapi"
	ProviderMock    = "mock"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string            `yaml:"provider"`
		BaseURL       string            `yaml:"base_url"`
		APIKey        string            `yaml:"api_key"`
		SymbolAliases map[string]string `yaml:"symbol_aliases"`
	} `yaml:"data_source"`
	Comparison struct {
		WindowDays int    `yaml:"window_days"`
		Interval   string `yaml:"interval"`
	} `yaml:"comparison"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file or .env is not an error.
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

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" && cfg.DataSource.Provider == ProviderEODHD {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BARSAPI_API_KEY"); v != "" && cfg.DataSource.Provider == ProviderBarsAPI {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("WINDOW_DAYS: %w", err)
		}
		cfg.Comparison.WindowDays = days
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.Comparison.WindowDays == 0 {
		cfg.Comparison.WindowDays = 5 * 365
	}
	if cfg.Comparison.Interval == "" {
		cfg.Comparison.Interval = string(model.IntervalMonthly)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Interval returns the parsed comparison interval.
func (c *Config) Interval() model.Interval {
	i, err := model.ParseInterval(c.Comparison.Interval)
	if err != nil {
		return model.IntervalMonthly
	}
	return i
}

// Validate checks that the configuration can run comparisons.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderEODHD:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for provider %q", c.DataSource.Provider)
		}
	case ProviderBarsAPI:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", c.DataSource.Provider)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, eodhd, barsapi, mock", c.DataSource.Provider)
	}
	if c.Comparison.WindowDays <= 0 {
		return fmt.Errorf("comparison.window_days must be positive")
	}
	if _, err := model.ParseInterval(c.Comparison.Interval); err != nil {
		return fmt.Errorf("comparison.interval: %w", err)
	}
	return nil
}
