// Package logger builds the slog loggers used by the site and its tools.
//
// New writes JSON or text to stdout at the configured level and, when a
// Sentry DSN is set, mirrors records at or above Sentry.MinLevel to Sentry.
// Context extractors add request-scoped attributes to every record logged
// with a context:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	defer logger.Flush(2 * time.Second)
//
//	log.InfoContext(r.Context(), "locale switched", slog.String("locale", "ru"))
//	// {"level":"INFO","msg":"locale switched","locale":"ru","request_id":"..."}
//
// An extractor returns false to add nothing for that record:
//
//	func(ctx context.Context) (slog.Attr, bool) {
//		id := middlewares.GetRequestID(ctx)
//		return slog.String("request_id", id), id != ""
//	}
//
// NewHandler exposes the stdout handler alone for command line tools that
// log to stderr, and NewNope discards everything (library defaults, tests).
//
// Config carries env tags (LOG_LEVEL, LOG_FORMAT, SENTRY_*) and is embedded
// in the application configs parsed with caarlos0/env.
package logger
