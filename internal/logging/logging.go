// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"fte/internal/config"
)

// ParseLevel parses a level name or a numeric slog level.
func ParseLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// NewWriter returns the rotating log file writer for cfg
func NewWriter(cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.GetLogPath(),
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
}

// NewLogger builds a text logger writing to w.
// By default it logs at the configured level; verbose forces debug.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := ParseLevel(cfg.Log.Level, slog.LevelInfo)
	if cfg.Log.Verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})

	return slog.New(handler)
}

// Configure installs the rotating file logger as the default logger and
// returns a closer for the log file.
func Configure(cfg *config.Config) io.Closer {
	writer := NewWriter(cfg)
	slog.SetDefault(NewLogger(writer, cfg))
	return writer
}
