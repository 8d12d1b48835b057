// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the binary needs to run.
type Config struct {
	// eBay Finding API application ID. Empty disables the eBay fetcher.
	EbayAppID string

	// Path to the sqlite card database.
	DBPath string

	// Path to the JSON search-result cache.
	CachePath string

	// Cron expression for the background refresh schedule.
	RefreshCron string

	// Cards refreshed per batch.
	BatchSize int

	// Outbound marketplace requests per second.
	RatePerSec float64

	// TTL for cached search results.
	CacheTTL time.Duration

	// Whether the 130point fetcher participates.
	Point130Enabled bool

	// Listen address for the Prometheus /metrics endpoint. Empty disables it.
	MetricsAddr string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments use actual env vars.
	_ = godotenv.Load()

	cfg := &Config{
		EbayAppID:       os.Getenv("EBAY_APP_ID"),
		DBPath:          envOr("DB_PATH", "data/cards.db"),
		CachePath:       envOr("CACHE_PATH", "data/sales-cache.json"),
		RefreshCron:     envOr("REFRESH_CRON", "@every 15m"),
		BatchSize:       25,
		RatePerSec:      2,
		CacheTTL:        6 * time.Hour,
		Point130Enabled: os.Getenv("POINT130_ENABLED") != "false",
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
	}

	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid BATCH_SIZE %q", v)
		}
		cfg.BatchSize = n
	}

	if v := os.Getenv("RATE_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid RATE_PER_SEC %q", v)
		}
		cfg.RatePerSec = f
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
