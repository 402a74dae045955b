// Package log configures the process-wide structured logger shared by the
// flowline commands.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default logger at the given level. Unknown levels fall
// back to info. Setting FLOWLINE_LOG_FORMAT=json switches the handler to JSON
// output for log shippers.
func Setup(logLevel string) {
	options := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, options)
	if strings.EqualFold(os.Getenv("FLOWLINE_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}

	slog.SetDefault(slog.New(handler).With("service", "flowline"))
}

// ParseLevel maps a level name to its slog level, accepting "warning" as an
// alias for "warn".
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
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

// WithModule tags the default logger with the flowline module emitting the
// records (api, scheduler, executor).
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
