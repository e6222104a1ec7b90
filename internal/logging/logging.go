// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"
)

// New returns a logger writing to w in the given format ("text" or
// "json") at the given level. The stdlib log package is routed through
// the same handler.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h).With(slog.String("service", "quitplan"))

	log.SetOutput(slog.NewLogLogger(h, slog.LevelInfo).Writer())
	log.SetFlags(0)
	return logger
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
