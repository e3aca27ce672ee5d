package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr          string // HTTP listen address
	DatabaseURL   string // SQLite database file path
	SecretKey     string // session cookie signing key
	StaticDir     string // served under /static/
	LogLevel      string
	LogFormat     string // "text" or "json"
	TimelineLimit int    // messages shown on the home timeline
	ProfileLimit  int    // messages shown on a profile page
}

// loadConfig reads configuration from the environment, after merging in a
// .env file when one exists.
func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        ":" + getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", "warbler.db"),
		SecretKey:   getEnv("SECRET_KEY", "it's a secret"),
		StaticDir:   getEnv("STATIC_DIR", "static"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.TimelineLimit, err = getEnvInt("TIMELINE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.ProfileLimit, err = getEnvInt("PROFILE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

// String masks the secret key.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, DB: %s, Static: %s, Log: %s/%s, SecretKey: ***}",
		c.Addr, c.DatabaseURL, c.StaticDir, c.LogLevel, c.LogFormat)
}
