// Package common provides shared utilities for Varlik
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Varlik
type Config struct {
	Environment string           `toml:"environment"`
	Currencies  CurrencyConfig   `toml:"currencies"`
	Storage     StorageConfig    `toml:"storage"`
	Clients     ClientsConfig    `toml:"clients"`
	Logging     LoggingConfig    `toml:"logging"`
	Classifier  ClassifierConfig `toml:"classifier"`
}

// CurrencyConfig names the two display currencies. Every value in a
// portfolio can be shown in either one.
type CurrencyConfig struct {
	Local   string `toml:"local"`   // e.g. "TRY"
	Foreign string `toml:"foreign"` // e.g. "USD"
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string `toml:"backend"` // "badger" (default) or "surrealdb"
	Path    string `toml:"path"`    // badger data directory

	// SurrealDB connection settings
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Tefas TefasConfig `toml:"tefas"`
	Rates RatesConfig `toml:"rates"`
}

// TefasConfig holds TEFAS fund price API configuration
type TefasConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TefasConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RatesConfig holds FX rate API configuration
type RatesConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *RatesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ClassifierConfig carries the override lists for the category classifier
// so named exceptions are configuration, not code.
type ClassifierConfig struct {
	ForeignETFs      []string `toml:"foreign_etfs"`      // allow-listed foreign ETF tickers
	CryptoExclusions []string `toml:"crypto_exclusions"` // 3-letter codes that are crypto, not funds
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Currencies: CurrencyConfig{
			Local:   "TRY",
			Foreign: "USD",
		},
		Storage: StorageConfig{
			Backend:   "badger",
			Path:      "data/varlik",
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "varlik",
			Database:  "varlik",
		},
		Clients: ClientsConfig{
			Tefas: TefasConfig{
				BaseURL:   "https://www.tefas.gov.tr",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Rates: RatesConfig{
				BaseURL:   "https://api.frankfurter.dev/v1",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from a TOML file, falling back to defaults
// for any missing section. Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies VARLIK_* environment variables over file values.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("VARLIK_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("VARLIK_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("VARLIK_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("VARLIK_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("VARLIK_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("VARLIK_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}
	if v := os.Getenv("VARLIK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.Currencies.Local == "" || c.Currencies.Foreign == "" {
		return fmt.Errorf("currencies.local and currencies.foreign are required")
	}
	if strings.EqualFold(c.Currencies.Local, c.Currencies.Foreign) {
		return fmt.Errorf("currencies.local and currencies.foreign must differ")
	}
	switch c.Storage.Backend {
	case "badger", "surrealdb":
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: badger, surrealdb)", c.Storage.Backend)
	}
	return nil
}
