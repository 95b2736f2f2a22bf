// Package export orchestrates a full workspace export: it resolves users
// and channels once per run, flattens each channel's timeline with thread
// replies expanded in place, and writes one file per channel.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/testsabirweb/slack_export/pkg/models"
)

// ErrOutputDirExists is returned when the output directory is already
// present. The check runs before any network activity; nothing is ever
// overwritten.
var ErrOutputDirExists = errors.New("output directory already exists")

// Client is the subset of the Slack API the exporter consumes.
type Client interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListChannels(ctx context.Context) ([]models.Channel, error)
	FetchMessages(ctx context.Context, channelID string) ([]models.Message, error)
	FetchReplies(ctx context.Context, channelID, threadTS string) ([]models.Message, error)
}

// ServiceConfig contains configuration for the export service
type ServiceConfig struct {
	// OutputDir is created by the run and must not already exist.
	OutputDir string
	// Format selects the output writer: FormatJSON or FormatJSONL.
	Format string
}

// Service runs a workspace export. Runs are fully sequential: one request
// in flight at a time, one channel at a time, first error aborts the run.
// Files written before a failure stay on disk.
type Service struct {
	client    Client
	writer    Writer
	outputDir string
	format    string
	logger    *slog.Logger
}

// NewService creates a new export service
func NewService(client Client, cfg ServiceConfig, logger *slog.Logger) (*Service, error) {
	writer, err := WriterFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:    client,
		writer:    writer,
		outputDir: cfg.OutputDir,
		format:    cfg.Format,
		logger:    logger,
	}, nil
}

// Stats tracks what a run exported.
type Stats struct {
	ChannelsExported int
	MessagesWritten  int
	ThreadsExpanded  int
	StartTime        time.Time
	EndTime          time.Time
}

// Duration returns the elapsed run time.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Run exports every channel the token can see, one file per channel.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	logger := s.logger.With("run_id", uuid.NewString())

	if err := os.Mkdir(s.outputDir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputDirExists, s.outputDir)
		}
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("fetching users")
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	userTable := make(map[string]models.User, len(users))
	for _, u := range users {
		userTable[u.ID] = u
	}
	logger.Info("users fetched", "count", len(users))

	logger.Info("fetching channels")
	channels, err := s.client.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("channels fetched", "count", len(channels))

	for _, channel := range channels {
		name, err := displayName(channel, userTable)
		if err != nil {
			return nil, err
		}

		logger.Info("fetching messages", "channel", name)
		messages, err := s.client.FetchMessages(ctx, channel.ID)
		if err != nil {
			return nil, err
		}

		flat, threads, err := s.expandThreads(ctx, channel.ID, messages)
		if err != nil {
			return nil, err
		}
		logger.Info("messages and replies fetched", "channel", name, "count", len(flat))

		if err := s.writeChannel(name, flat); err != nil {
			return nil, err
		}

		stats.ChannelsExported++
		stats.MessagesWritten += len(flat)
		stats.ThreadsExpanded += threads
	}

	stats.EndTime = time.Now()
	return stats, nil
}

// expandThreads reverses the newest-first timeline into chronological
// order and replaces every message that belongs to a thread with the
// thread's full reply sequence, root first.
func (s *Service) expandThreads(ctx context.Context, channelID string, messages []models.Message) ([]models.Message, int, error) {
	flat := make([]models.Message, 0, len(messages))
	threads := 0

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.ThreadTS == "" {
			flat = append(flat, msg)
			continue
		}

		replies, err := s.client.FetchReplies(ctx, channelID, msg.ThreadTS)
		if err != nil {
			return nil, 0, err
		}
		flat = append(flat, replies...)
		threads++
	}
	return flat, threads, nil
}

// displayName resolves the name a channel's file is written under: the
// channel's own name, or the counterpart user's name for direct messages.
func displayName(channel models.Channel, users map[string]models.User) (string, error) {
	if channel.Name != "" {
		return channel.Name, nil
	}
	user, ok := users[channel.User]
	if !ok {
		return "", fmt.Errorf("channel %s: counterpart user %q not found", channel.ID, channel.User)
	}
	return user.Name, nil
}

func (s *Service) writeChannel(name string, messages []models.Message) error {
	path := filepath.Join(s.outputDir, name+"."+s.format)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.writer.Write(f, messages); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
