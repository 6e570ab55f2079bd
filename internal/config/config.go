// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"realestate-price/core/types"
	perrors "realestate-price/internal/errors"
	"realestate-price/internal/logging"
)

// Environment variables that override file values
const (
	EnvModelPath  = "PRICE_MODEL_PATH"
	EnvRulesPath  = "PRICE_RULES_PATH"
	EnvServerAddr = "PRICE_SERVER_ADDR"
	EnvLogLevel   = "PRICE_LOG_LEVEL"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Model contains model artifact configuration
	Model ModelConfig `json:"model"`

	// Rules contains rule table configuration
	Rules RulesConfig `json:"rules"`

	// Pricing contains unit configuration
	Pricing PricingConfig `json:"pricing"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	ReadTimeoutSeconds     int `json:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `json:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// ModelConfig contains model artifact settings
type ModelConfig struct {
	// Path is the serialized model artifact. Empty or missing means heuristic only.
	Path string `json:"path"`

	// LoadTimeoutSeconds bounds the startup load attempt
	LoadTimeoutSeconds int `json:"load_timeout_seconds"`
}

// RulesConfig contains rule table settings
type RulesConfig struct {
	// Path is an HCL rule file; empty uses the built-in tables
	Path string `json:"path"`
}

// PricingConfig documents the units prices are reported in.
// They are informational; the model and tiers define the actual unit.
type PricingConfig struct {
	CurrencyUnit string `json:"currency_unit"`
	AreaUnit     string `json:"area_unit"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                   ":8000",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 15,
		},
		Model: ModelConfig{
			Path:               filepath.Join("models", "model_xgb.json"),
			LoadTimeoutSeconds: 5,
		},
		Pricing: PricingConfig{
			CurrencyUnit: types.MonetaryUnit,
			AreaUnit:     types.AreaUnit,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides file values with any PRICE_* environment variables
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvModelPath); ok {
		c.Model.Path = v
	}
	if v, ok := os.LookupEnv(EnvRulesPath); ok {
		c.Rules.Path = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return perrors.Config("server.addr is required")
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 || c.Server.ShutdownTimeoutSeconds < 0 {
		return perrors.Config("server timeouts must not be negative")
	}
	if c.Model.LoadTimeoutSeconds < 0 {
		return perrors.Config("model.load_timeout_seconds must not be negative")
	}
	return nil
}

// LoadTimeout returns the model load bound
func (m ModelConfig) LoadTimeout() time.Duration {
	return time.Duration(m.LoadTimeoutSeconds) * time.Second
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
