package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go.
type Options struct {
	Level string
	// File, when set, receives a copy of every record and is rotated by size.
	File string
	// Console defaults to stdout.
	Console io.Writer
}

// New builds a slog.Logger configured for console output and the provided level.
func New(level string) *slog.Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions builds a slog.Logger that writes to stdout and, optionally, to a rotating file.
func NewWithOptions(opts Options) *slog.Logger {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	out := console
	if path := strings.TrimSpace(opts.File); path != "" {
		out = io.MultiWriter(console, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}
	return NewWriter(out, opts.Level)
}

// NewWriter builds a text logger on an arbitrary writer.
func NewWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// ParseLevel maps a textual level to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
