// Package config reads spendlog settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/mmynk/spendlog/internal/models"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the runtime settings.
type Config struct {
	Backend     string
	DBPath      string
	DatabaseURL string
	StorageKey  string
	Locale      language.Tag
	LogLevel    string
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:     strings.ToLower(getEnv("SPENDLOG_BACKEND", BackendSQLite)),
		DBPath:      getEnv("SPENDLOG_DB_PATH", "./data/spendlog.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StorageKey:  getEnv("SPENDLOG_STORAGE_KEY", models.StorageKey),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	locale, err := language.Parse(getEnv("SPENDLOG_LOCALE", "en"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SPENDLOG_LOCALE: %w", err)
	}
	cfg.Locale = locale

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the backend is known and has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("sqlite backend requires SPENDLOG_DB_PATH")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("postgres backend requires DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q: must be one of %s, %s, %s",
			c.Backend, BackendSQLite, BackendPostgres, BackendMemory)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
