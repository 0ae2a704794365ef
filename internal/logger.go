package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mama165/sdk-go/logs"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// NewLogger returns the sdk-go logger for level, or a JSON logger writing to a rotating
// file when path is set.
func NewLogger(level, path string) (*slog.Logger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return logs.GetLoggerFromString(level), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLogLevel(level)})), nil
}

func parseLogLevel(level string) slog.Level {
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
