// Package observability provides structured logger construction for the
// exporter. A logger is built once per invocation and handed to every
// component; there is no process-wide mutable logger state.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat values accepted by LogConfig.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig configures the logger.
type LogConfig struct {
	// Level sets the minimum log level: debug, info, warn, or error.
	Level string
	// Format specifies the output format (text or json).
	Format string
	// Output is the writer for logs. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultLogConfig returns sensible defaults for interactive use.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: LogFormatText,
		Output: os.Stderr,
	}
}

// NewLogger creates a structured logger with the given configuration.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
