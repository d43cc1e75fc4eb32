package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/campusbuzz/campusbuzz/internal/log"
)

const (
	defaultPort        = "8080"
	defaultDatabaseURL = "sqlite://campusbuzz.db"
	defaultLoginURL    = "/login"
	defaultCORSOrigin  = "*"
)

// Config holds everything the server and the CLI read from the environment.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	LoginURL      string
	CORSOrigin    string
	DBDebug       bool
}

// Load reads a .env file if one exists and then the process environment.
// A missing .env is not an error so production can set variables directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info.Println("No .env file found, reading from environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", defaultPort),
		DatabaseURL:   getenv("DATABASE_URL", defaultDatabaseURL),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LoginURL:      getenv("LOGIN_URL", defaultLoginURL),
		CORSOrigin:    getenv("CORS_ORIGIN", defaultCORSOrigin),
		DBDebug:       os.Getenv("DB_DEBUG") == "1",
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
