package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/neiam/theme-sender/internal/infrastructure/config"
)

// Logger is a slog.Logger that always carries the service and version.
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger for cfg writing to stdout, or stderr when
// cfg.Output is "stderr".
func New(cfg config.LoggingConfig, service, version string) *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(w, cfg, service, version)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg config.LoggingConfig, service, version string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(h.WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("version", version),
	}))}
}

// parseLevel maps debug, info, warn(ing) and error to slog levels.
// Anything else is info.
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

// With returns a Logger with args added to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component tags entries with the subsystem that wrote them, e.g.
// "publisher" or "listener".
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}
