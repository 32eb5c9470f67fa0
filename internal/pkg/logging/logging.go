// Package logging configures the process-wide slog default used by every
// TrailHub binary.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default logger. level is one of debug, info, warn,
// error (info when unrecognised); format is json or text (json when
// unrecognised, which is what the log pipeline expects in production).
func Setup(level, format string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
