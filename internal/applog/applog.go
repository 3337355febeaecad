package applog

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 3
)

// InitConfig holds configuration for Init.
type InitConfig struct {
	Path  string
	Level string
}

// Init sets up structured logging to a size-rotated file. Both slog.Default
// and the stdlib log package write to it. The returned io.Closer must be
// closed by the caller.
func Init(cfg InitConfig) (*slog.Logger, io.Closer, error) {
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}
	logger := New(writer, cfg.Level)
	slog.SetDefault(logger)
	log.SetOutput(writer)
	log.SetFlags(0)

	return logger, writer, nil
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel converts a level string to slog.Level. Defaults to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
