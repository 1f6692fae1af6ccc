// Package config loads application configuration from the environment, with
// an optional .env file for local overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Published feed locations, overridable through the environment.
const (
	DefaultDataURL = "https://raw.githubusercontent.com/jeisey/phiti/main/graffiti.csv"
	DefaultRefURL  = "https://raw.githubusercontent.com/jeisey/phiti/main/ref_ziparea.csv"
)

// Config holds all application configuration.
type Config struct {
	DataURL string
	RefURL  string

	FetchTimeout time.Duration
	BatchSize    int

	ShareBaseURL string
	LogFile      string
	Debug        bool
}

// Load reads the optional .env file and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataURL:      getEnv("PHITI_DATA_URL", DefaultDataURL),
		RefURL:       getEnv("PHITI_REF_URL", DefaultRefURL),
		FetchTimeout: time.Duration(getEnvInt("PHITI_FETCH_TIMEOUT_MS", 30000)) * time.Millisecond,
		BatchSize:    getEnvInt("PHITI_BATCH_SIZE", 12),
		ShareBaseURL: getEnv("PHITI_SHARE_BASE_URL", ""),
		LogFile:      getEnv("PHITI_LOG_FILE", ""),
		Debug:        getEnv("PHITI_DEBUG", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
