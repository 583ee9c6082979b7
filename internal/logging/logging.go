// Package logging builds the structured loggers used by the server and CLI.
//
// Output always goes to the writer passed in, which is stderr in production:
// stdout carries the MCP protocol and must stay clean.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New returns a slog.Logger with the provided level string (debug, info, warn, error).
// format may be "json" or "text".
func New(level string, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
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

// LogToolStatus logs external tool detection.
func LogToolStatus(logger *slog.Logger, tool string, available bool, path string) {
	if available {
		logger.Debug("tool detected", "tool", tool, "path", path)
	} else {
		logger.Debug("tool not available", "tool", tool, "path", path)
	}
}

// LogToolCall logs the outcome of one MCP tool invocation.
func LogToolCall(logger *slog.Logger, tool string, duration time.Duration, err error) {
	if err != nil {
		logger.Warn("tool call failed",
			"tool", tool,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	logger.Debug("tool call completed",
		"tool", tool,
		"duration_ms", duration.Milliseconds(),
	)
}
