package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/testsabirweb/slack_export/internal/config"
	"github.com/testsabirweb/slack_export/pkg/export"
	"github.com/testsabirweb/slack_export/pkg/observability"
	"github.com/testsabirweb/slack_export/pkg/slack"
)

func main() {
	// Load .env if present (for SLACK_TOKEN)
	_ = godotenv.Load()

	// Define command-line flags
	var (
		token        = flag.String("token", "", "Slack OAuth access token (falls back to SLACK_TOKEN)")
		outputDir    = flag.String("output-dir", "", "Directory to write channel files to; must not already exist")
		outputFormat = flag.String("output-format", "", "Output format: 'json' or 'jsonl'")
		logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error")
		logFormat    = flag.String("log-format", "", "Log format: text or json")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	// Load configuration; flags override environment values
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *token != "" {
		cfg.Slack.Token = *token
	}
	if *outputDir != "" {
		cfg.Export.OutputDir = *outputDir
	}
	if *outputFormat != "" {
		cfg.Export.Format = *outputFormat
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	client := slack.NewClient(cfg.Slack.Token, slack.ClientConfig{
		BaseURL:           cfg.Slack.BaseURL,
		RequestsPerMinute: cfg.Slack.RequestsPerMinute,
		Logger:            logger,
	})

	service, err := export.NewService(client, export.ServiceConfig{
		OutputDir: cfg.Export.OutputDir,
		Format:    cfg.Export.Format,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create export service: %v", err)
	}

	stats, err := service.Run(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	// Print results
	duration := stats.Duration()
	fmt.Println("\n=== Export Complete ===")
	fmt.Printf("Duration: %s\n", duration.Round(time.Second))
	fmt.Printf("Channels exported: %d\n", stats.ChannelsExported)
	fmt.Printf("Messages written: %d\n", stats.MessagesWritten)
	fmt.Printf("Threads expanded: %d\n", stats.ThreadsExpanded)

	if stats.MessagesWritten > 0 && duration.Seconds() > 0 {
		fmt.Printf("Export rate: %.2f messages/second\n", float64(stats.MessagesWritten)/duration.Seconds())
	}
}

func printUsage() {
	fmt.Println("Slack Workspace Export Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  export -token <token> [options]")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Export every channel as pretty-printed JSON")
	fmt.Println("  export -token xoxb-... -output-dir backup")
	fmt.Println("\n  # Export as newline-delimited JSON")
	fmt.Println("  export -token xoxb-... -output-dir backup -output-format jsonl")
}
