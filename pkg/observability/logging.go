package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig controls handler construction for the process logger.
type LogConfig struct {
	Level  string    // "debug", "info", "warn", "error"
	Format string    // "json" or "text"
	Output io.Writer // defaults to os.Stdout
}

// InitLogger builds a structured slog.Logger from cfg and installs it as
// the process default. Unknown levels fall back to info, unknown formats
// to the text handler.
func InitLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
