package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Slack.BaseURL != "https://slack.com/api" {
		t.Errorf("BaseURL = %q", cfg.Slack.BaseURL)
	}
	if cfg.Slack.RequestsPerMinute != 50 {
		t.Errorf("RequestsPerMinute = %d, want 50", cfg.Slack.RequestsPerMinute)
	}
	if cfg.Export.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want output", cfg.Export.OutputDir)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Export.Format)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-env")
	t.Setenv("OUTPUT_FORMAT", "jsonl")
	t.Setenv("SLACK_REQUESTS_PER_MINUTE", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Slack.Token != "xoxb-env" {
		t.Errorf("Token = %q, want xoxb-env", cfg.Slack.Token)
	}
	if cfg.Export.Format != "jsonl" {
		t.Errorf("Format = %q, want jsonl", cfg.Export.Format)
	}
	if cfg.Slack.RequestsPerMinute != 100 {
		t.Errorf("RequestsPerMinute = %d, want 100", cfg.Slack.RequestsPerMinute)
	}
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("SLACK_REQUESTS_PER_MINUTE", "fast")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric rate")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Slack:  SlackConfig{Token: "xoxb-x", BaseURL: "https://slack.com/api", RequestsPerMinute: 50},
			Export: ExportConfig{OutputDir: "out", Format: "json"},
			Log:    LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid json",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid jsonl",
			mutate: func(c *Config) { c.Export.Format = "jsonl" },
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Slack.Token = "" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Export.Format = "csv" },
			wantErr: true,
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.Export.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Slack.RequestsPerMinute = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
