package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// appName tags every record so travelwish lines can be picked out of a
// shared log stream.
const appName = "travelwish"

// New returns the process logger: JSON to stderr, and also to logFile when
// set. It becomes the slog default. Debug level adds source locations.
// Callers must defer the returned cleanup, which closes the log file.
func New(level, logFile string) (*slog.Logger, func(), error) {
	lvl := parseLevel(level)

	writers := []io.Writer{os.Stderr}
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	logger := slog.New(handler).With("app", appName)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// parseLevel maps LOG_LEVEL to a slog level. Unknown values log at info.
func parseLevel(s string) slog.Level {
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
