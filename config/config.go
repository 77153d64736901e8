package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds scraper and report configuration.
type Config struct {
	BaseURL          string
	MaxPages         int
	Timeout          time.Duration
	UserAgent        string
	OutputFile       string // empty means timestamped default name
	OutputFormat     string // csv, json, or dual
	ChartDir         string
	ReportFile       string
	HistogramBuckets int
	MetricsAddr      string
	Verbose          bool
}

// DefaultConfig returns conservative defaults for the demo target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://books.toscrape.com",
		MaxPages:         3,
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		OutputFile:       "",
		OutputFormat:     "csv",
		ChartDir:         "charts",
		ReportFile:       "report.html",
		HistogramBuckets: 20,
		MetricsAddr:      "",
		Verbose:          false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.ChartDir == "" {
		return fmt.Errorf("chart directory cannot be empty")
	}
	if c.ReportFile == "" {
		return fmt.Errorf("report file cannot be empty")
	}
	if c.HistogramBuckets <= 0 {
		return fmt.Errorf("histogram buckets must be positive")
	}

	return nil
}

// EnvInt reads an integer environment variable. The second return reports
// whether the variable was set.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s=%q is not an integer: %w", name, raw, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable, reporting presence.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
