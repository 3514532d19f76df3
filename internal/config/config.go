package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends for round history
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP API
	HTTPAddr string `env:"RELANCINA_HTTP_ADDR" envDefault:":3000"`

	// Environment
	Environment string `env:"RELANCINA_ENVIRONMENT" envDefault:"development"` // "development" or "production"
	LogLevel    string `env:"RELANCINA_LOG_LEVEL" envDefault:"INFO"`

	// Round history storage
	StorageType string `env:"RELANCINA_STORAGE_TYPE" envDefault:"memory"`
	DataDir     string `env:"RELANCINA_DATA_DIR" envDefault:"data"`

	// Elasticsearch
	ESURL         string `env:"RELANCINA_ES_URL" envDefault:"http://localhost:9200"`
	ESUsername    string `env:"RELANCINA_ES_USERNAME"`
	ESPassword    string `env:"RELANCINA_ES_PASSWORD"`
	ESIndexPrefix string `env:"RELANCINA_ES_INDEX_PREFIX" envDefault:"relancina"`

	// Registry housekeeping
	GameTTL         time.Duration `env:"RELANCINA_GAME_TTL" envDefault:"6h"`
	CleanupInterval time.Duration `env:"RELANCINA_CLEANUP_INTERVAL" envDefault:"15m"`
	// HistoryRetention of zero keeps round history forever
	HistoryRetention time.Duration `env:"RELANCINA_HISTORY_RETENTION" envDefault:"0"`

	// Discord configuration, optional
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"`
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageType == StorageSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks that the configured values are usable
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite, StorageElasticsearch:
	default:
		return fmt.Errorf("RELANCINA_STORAGE_TYPE must be one of memory, sqlite, elasticsearch (got %q)", c.StorageType)
	}
	if c.GameTTL <= 0 {
		return fmt.Errorf("RELANCINA_GAME_TTL must be positive")
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("RELANCINA_CLEANUP_INTERVAL must be positive")
	}
	if c.HistoryRetention < 0 {
		return fmt.Errorf("RELANCINA_HISTORY_RETENTION must not be negative")
	}
	if c.Token != "" && c.AppID == "" {
		return fmt.Errorf("DISCORD_APP_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DiscordEnabled reports whether the Discord front-end should start
func (c *Config) DiscordEnabled() bool {
	return c.Token != "" && c.AppID != ""
}
