// Package common provides shared utilities for bdcwatch
package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// SystemKV is the minimal key-value surface config resolution needs.
// Satisfied by the storage manager's KV store.
type SystemKV interface {
	GetSystemKV(ctx context.Context, key string) (string, error)
}

// Config holds all configuration for bdcwatch
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Ingest      IngestConfig  `toml:"ingest"`
	Refresh     RefreshConfig `toml:"refresh"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	FMP    FMPConfig    `toml:"fmp"`
	Gemini GeminiConfig `toml:"gemini"`
	EDGAR  EDGARConfig  `toml:"edgar"`
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FMPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// EDGARConfig holds SEC EDGAR access configuration.
// EDGAR requires a descriptive User-Agent with contact details.
type EDGARConfig struct {
	UserAgent string `toml:"user_agent"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EDGARConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// IngestConfig controls filing ingestion behavior.
type IngestConfig struct {
	MinHoldings int `toml:"min_holdings"` // below this, synthetic fallback kicks in
}

// RefreshConfig controls the periodic metrics refresh job.
type RefreshConfig struct {
	Schedule string `toml:"schedule"`  // cron expression; empty disables the internal scheduler
	MinDelay string `toml:"min_delay"` // minimum delay between successive quote calls
}

// GetMinDelay parses and returns the minimum inter-call delay
func (c *RefreshConfig) GetMinDelay() time.Duration {
	d, err := time.ParseDuration(c.MinDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/bdcwatch",
		},
		Clients: ClientsConfig{
			FMP: FMPConfig{
				BaseURL:   "https://financialmodelingprep.com/api/v3",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			EDGAR: EDGARConfig{
				UserAgent: "bdcwatch/1.0 (admin@bdcwatch.local)",
				Timeout:   "30s",
			},
		},
		Ingest: IngestConfig{
			MinHoldings: 5,
		},
		Refresh: RefreshConfig{
			Schedule: "",
			MinDelay: "500ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BDCWATCH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("BDCWATCH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("BDCWATCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("BDCWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("BDCWATCH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if ua := os.Getenv("BDCWATCH_EDGAR_USER_AGENT"); ua != "" {
		config.Clients.EDGAR.UserAgent = ua
	}

	if sched := os.Getenv("BDCWATCH_REFRESH_SCHEDULE"); sched != "" {
		config.Refresh.Schedule = sched
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment, system KV, or fallback
func ResolveAPIKey(ctx context.Context, store SystemKV, name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"fmp_api_key":    {"FMP_API_KEY", "BDCWATCH_FMP_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "BDCWATCH_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	// Check environment variables first (highest priority)
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try system KV (medium priority)
	if store != nil {
		apiKey, err := store.GetSystemKV(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback (lowest priority)
	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or store", name)
}
