package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds pipeline configuration.
type Config struct {
	IncomingDir    string
	ArchiveDir     string
	ReportFile     string
	CatalogBaseURL string
	Timeout        time.Duration
	RateLimitPause time.Duration
	UserAgent      string
	CacheSize      int
	MetricsAddr    string
	Watch          bool
	WatchSettle    time.Duration
	Verbose        bool
}

// DefaultConfig returns the defaults matching the production deployment.
func DefaultConfig() *Config {
	return &Config{
		IncomingDir:    "incoming_orders",
		ArchiveDir:     "archive",
		ReportFile:     "processed orders summary.xlsx",
		CatalogBaseURL: "https://fakestoreapi.com",
		Timeout:        10 * time.Second,
		RateLimitPause: 60 * time.Second,
		UserAgent:      "go-order-report/1.0",
		CacheSize:      256,
		MetricsAddr:    "",
		Watch:          false,
		WatchSettle:    2 * time.Second,
		Verbose:        false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.IncomingDir == "" {
		return fmt.Errorf("incoming directory cannot be empty")
	}
	if c.ArchiveDir == "" {
		return fmt.Errorf("archive directory cannot be empty")
	}
	if c.ReportFile == "" {
		return fmt.Errorf("report file cannot be empty")
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("catalog base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.CatalogBaseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("catalog base URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RateLimitPause < 0 {
		return fmt.Errorf("rate limit pause cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.Watch && c.WatchSettle <= 0 {
		return fmt.Errorf("watch settle delay must be positive")
	}

	return nil
}

// EnvString reads a string environment override.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration reads a duration environment override.
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
