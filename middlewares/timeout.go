package middlewares

import (
	"net/http"
	"time"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Timeout time.Duration
	Body    string // response body sent with 503 on timeout
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutBody sets the body written when the handler times out.
func WithTimeoutBody(body string) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.Body = body
	}
}

// Timeout returns middleware that bounds request handling. The request
// context carries the deadline, so locale loads started by the handler are
// cancelled with it. A handler still running at the deadline gets 503 and
// its later writes are discarded.
func Timeout(timeout time.Duration, opts ...TimeoutOption) func(http.Handler) http.Handler {
	cfg := &TimeoutConfig{
		Timeout: timeout,
		Body:    `{"error":"request timeout"}`,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, cfg.Timeout, cfg.Body)
	}
}
