// Package config loads worker configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of one worker process.
type Config struct {
	// StoreURL and StoreDB locate the revisioned document store.
	StoreURL string
	StoreDB  string

	// DocServiceURL and DocServiceToken configure the external audit
	// upload service. Empty URL selects the in-document attachment
	// fallback.
	DocServiceURL   string
	DocServiceToken string

	// MetricsAddr, when set, exposes Prometheus metrics on that address.
	MetricsAddr string

	LogLevel  string
	LogPretty bool
}

// Load reads the configuration, sourcing a .env file first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		StoreURL:        os.Getenv("STORE_URL"),
		StoreDB:         getenvDefault("STORE_DB", "auctions"),
		DocServiceURL:   os.Getenv("DOC_SERVICE_URL"),
		DocServiceToken: os.Getenv("DOC_SERVICE_TOKEN"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		LogLevel:        getenvDefault("LOG_LEVEL", "info"),
		LogPretty:       os.Getenv("LOG_PRETTY") == "true",
	}
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("missing required env var: STORE_URL")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
