// Package logger configures the process-wide slog logger. All packages log
// through log/slog; this package only decides handler, level and output.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"disorder.dev/shandler"
)

// LevelTrace and LevelFatal extend the standard slog levels using the
// shandler conventions.
const (
	LevelTrace = shandler.LevelTrace
	LevelFatal = shandler.LevelFatal
)

// Setup installs the default slog logger. Format is "json" or "text";
// level is one of trace, debug, info, warn, error.
func Setup(level string, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
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

// Fatal logs at the fatal level and exits with code 1. Reserved for
// startup configuration errors; running servers log and stay up instead.
func Fatal(msg string, args ...any) {
	slog.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}
