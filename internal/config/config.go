package config

import (
	"os"
	"strconv"

	"stratastats/internal/errors"
)

// Config represents the complete node configuration
type Config struct {
	Node     NodeConfig
	Privacy  PrivacyConfig
	Data     DataConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// NodeConfig identifies this site within the collaboration
type NodeConfig struct {
	SiteID string
}

// PrivacyConfig holds disclosure-control settings
type PrivacyConfig struct {
	Threshold int
}

// DataConfig holds the local dataset location
type DataConfig struct {
	File string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds optional result-store settings. An empty URL
// means results are returned to the caller only, never persisted.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Node: NodeConfig{
			SiteID: getEnvOrDefault("NODE_SITE_ID", "local"),
		},
		Privacy: PrivacyConfig{
			Threshold: getEnvIntOrDefault("PRIVACY_THRESHOLD", 5),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Privacy.Threshold < 0 {
		return errors.ConfigInvalid("PRIVACY_THRESHOLD must not be negative")
	}
	if config.Node.SiteID == "" {
		return errors.ConfigInvalid("NODE_SITE_ID must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
