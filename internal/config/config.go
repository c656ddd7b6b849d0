package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration. Values come from environment
// variables (with .env support via godotenv in main), optionally overlaid
// by a YAML file named in CONFIG_FILE.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	DatabaseURL string `yaml:"database_url"`
	JWKSURL     string `yaml:"jwks_url"`
	CORSOrigins string `yaml:"cors_origins"`
	YouTubeKey  string `yaml:"youtube_api_key"`
	TablePrefix string `yaml:"table_prefix"`
	LogDir      string `yaml:"log_dir"`
	Debug       bool   `yaml:"debug"`
}

// Load builds the configuration from the environment plus the optional
// YAML overlay.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		YouTubeKey:  getEnv("YOUTUBE_API_KEY", ""),
		TablePrefix: getTablePrefix(env),
		LogDir:      getEnv("LOG_DIR", ""),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyFile overlays settings from a YAML file. Zero values in the file
// leave the environment-derived value in place.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if overlay.Port != "" {
		c.Port = overlay.Port
	}
	if overlay.Environment != "" {
		c.Environment = overlay.Environment
	}
	if overlay.DatabaseURL != "" {
		c.DatabaseURL = overlay.DatabaseURL
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.CORSOrigins != "" {
		c.CORSOrigins = overlay.CORSOrigins
	}
	if overlay.YouTubeKey != "" {
		c.YouTubeKey = overlay.YouTubeKey
	}
	if overlay.TablePrefix != "" {
		c.TablePrefix = overlay.TablePrefix
	}
	if overlay.LogDir != "" {
		c.LogDir = overlay.LogDir
	}

	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
