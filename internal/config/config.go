package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Slack  SlackConfig
	Export ExportConfig
	Log    LogConfig
}

// SlackConfig holds Slack API configuration
type SlackConfig struct {
	Token             string
	BaseURL           string
	RequestsPerMinute int
}

// ExportConfig holds output configuration
type ExportConfig struct {
	OutputDir string
	Format    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables. Validation is
// deferred to Validate so callers can layer flag overrides on top first.
func Load() (*Config, error) {
	rpm, err := getEnvInt("SLACK_REQUESTS_PER_MINUTE", 50)
	if err != nil {
		return nil, err
	}

	return &Config{
		Slack: SlackConfig{
			Token:             getEnv("SLACK_TOKEN", ""),
			BaseURL:           getEnv("SLACK_BASE_URL", "https://slack.com/api"),
			RequestsPerMinute: rpm,
		},
		Export: ExportConfig{
			OutputDir: getEnv("OUTPUT_DIR", "output"),
			Format:    getEnv("OUTPUT_FORMAT", "json"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Slack.Token == "" {
		return fmt.Errorf("a Slack token is required (set SLACK_TOKEN or pass -token)")
	}
	if c.Slack.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive, got %d", c.Slack.RequestsPerMinute)
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("an output directory is required")
	}
	if c.Export.Format != "json" && c.Export.Format != "jsonl" {
		return fmt.Errorf("output format must be json or jsonl, got %q", c.Export.Format)
	}
	return nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}
