package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/elee1766/medassist/src/config"
)

// createChatLogger creates a logger that doesn't interfere with the chat
// prompt by writing to a file instead of stdout/stderr. The returned func
// closes the file.
func createChatLogger(logLevel string) (*slog.Logger, func() error) {
	return openFileLogger(config.DefaultLogPath(), logLevel)
}

func openFileLogger(logFile, logLevel string) (*slog.Logger, func() error) {
	discard := func() (*slog.Logger, func() error) {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		})), func() error { return nil }
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return discard()
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return discard()
	}

	return slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	})), file.Close
}

// createCLILogger creates a logger for CLI commands that writes to stderr
func createCLILogger(logLevel, format string) *slog.Logger {
	return newLogger(os.Stderr, logLevel, format)
}

func newLogger(w io.Writer, logLevel, format string) *slog.Logger {
	level := parseLogLevel(logLevel)

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level: level,
	}))
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
