// Package config handles configuration loading for AgriPulse.
// It supports YAML config files, an optional .env file, and environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/agripulse/pkg/models"
)

// EnvPrefix is the prefix of every environment override,
// e.g. AGRIPULSE_API_PORT.
const EnvPrefix = "AGRIPULSE"

// Config represents the complete application configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"  yaml:"catalog"`
	Forecast ForecastConfig `mapstructure:"forecast" yaml:"forecast"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Stream   StreamConfig   `mapstructure:"stream"   yaml:"stream"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// CatalogConfig holds the static commodity, market, state and month catalogs.
type CatalogConfig struct {
	Commodities []models.Commodity `mapstructure:"commodities" yaml:"commodities"`
	Markets     []models.Market    `mapstructure:"markets"     yaml:"markets"`
	States      []string           `mapstructure:"states"      yaml:"states"` // selection only, does not affect prices
	Months      []string           `mapstructure:"months"      yaml:"months"`
}

// ForecastConfig holds the actual/forecast split.
type ForecastConfig struct {
	CurrentMonth int `mapstructure:"current_month" yaml:"current_month"` // 0-indexed, 6 = July
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// StreamConfig holds WebSocket selection stream settings.
type StreamConfig struct {
	SelectionsPerSec float64 `mapstructure:"selections_per_sec" yaml:"selections_per_sec"`
	Burst            int     `mapstructure:"burst"              yaml:"burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.agripulse/config.yaml (home directory)
//  3. /etc/agripulse/config.yaml (system)
//
// A .env file in the working directory is loaded first when present.
// Environment variables override config file values.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".agripulse"))
	v.AddConfigPath("/etc/agripulse")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// SaveToFile writes cfg as YAML to path, creating parent directories.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are static and always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads ./.env into the process environment. A missing file is
// not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// setDefaults sets the reference catalog and service defaults.
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.commodities", []map[string]any{
		{"id": "wheat", "label": "Wheat", "emoji": "🌾", "base_price": 2200, "unit": "quintal"},
		{"id": "rice", "label": "Rice", "emoji": "🌾", "base_price": 1900, "unit": "quintal"},
		{"id": "maize", "label": "Maize", "emoji": "🌽", "base_price": 1750, "unit": "quintal"},
		{"id": "cotton", "label": "Cotton", "emoji": "☁️", "base_price": 6800, "unit": "quintal"},
		{"id": "tomato", "label": "Tomato", "emoji": "🍅", "base_price": 42, "unit": "kg"},
		{"id": "onion", "label": "Onion", "emoji": "🧅", "base_price": 28, "unit": "kg"},
		{"id": "potato", "label": "Potato", "emoji": "🥔", "base_price": 18, "unit": "kg"},
		{"id": "soybean", "label": "Soybean", "emoji": "🫘", "base_price": 4400, "unit": "quintal"},
	})
	v.SetDefault("catalog.markets", []map[string]any{
		{"name": "APMC Azadpur"},
		{"name": "Vashi Market"},
		{"name": "Koyambedu"},
		{"name": "Gultekdi"},
		{"name": "Shahibaugh"},
	})
	v.SetDefault("catalog.states", []string{
		"Punjab", "Haryana", "Maharashtra", "UP", "MP", "Rajasthan", "Gujarat", "Karnataka",
	})
	v.SetDefault("catalog.months", append([]string(nil), models.CalendarMonths...))

	// Forecast defaults
	v.SetDefault("forecast.current_month", 6) // July

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Stream defaults
	v.SetDefault("stream.selections_per_sec", 5.0)
	v.SetDefault("stream.burst", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
