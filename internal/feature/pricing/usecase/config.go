// Package usecase implements the background price perturbation loop.
package usecase

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the price updater.
type Config struct {
	Interval time.Duration // time between update cycles
	Seed     *int64        // fixed RNG seed for reproducible runs, nil in production
}

// LoadConfig loads price updater configuration from environment variables.
// PRICE_UPDATE_INTERVAL is in seconds and defaults to 10; PRICE_UPDATE_SEED
// enables the deterministic mode used for reproducible testing.
func LoadConfig() Config {
	cfg := Config{Interval: 10 * time.Second}

	if v := os.Getenv("PRICE_UPDATE_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Interval = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("PRICE_UPDATE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = &seed
		}
	}
	return cfg
}
