package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the log output. Sentry is enabled when Sentry.DSN is set.
type Config struct {
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Format string     `env:"LOG_FORMAT" envDefault:"json"` // json or text
	Sentry SentryConfig
}

// New creates a logger writing to stdout, mirrored to Sentry when
// configured, with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	handler := NewHandler(os.Stdout, cfg)
	if sh, ok := newSentryHandler(cfg.Sentry, handler); ok {
		handler = newMultiHandler(handler, sh)
	}
	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// NewHandler returns the stdout-style handler for cfg writing to w.
// Unknown formats fall back to JSON.
func NewHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
