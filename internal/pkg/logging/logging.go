package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global slog default logger. Every record carries a
// service attribute so logs from the api, ingestor, and planworker binaries
// can be told apart in a shared sink.
// level: debug | info | warn | error (default info).
// format: json | text (default json).
func Setup(service, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	if service != "" {
		logger = logger.With("service", service)
	}
	slog.SetDefault(logger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
