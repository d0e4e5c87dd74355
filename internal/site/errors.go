package site

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lightside/site/middlewares"
)

// ErrInvalidConfig wraps configuration errors.
var ErrInvalidConfig = errors.New("site: invalid configuration")

// HTTPError is an error with everything needed to render a JSON response.
type HTTPError struct {
	Err     error  // logged, never exposed
	Message string // user-facing, localized when a runtime is available
	Code    string // machine-readable error code
	Fields  []string
	Status  int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithCause sets the underlying error.
func WithCause(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// WithFields lists the request fields that caused the error.
func WithFields(fields ...string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Fields = fields
	}
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, code, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Status: status, Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type errorBody struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// writeError renders err as JSON. Errors that are not *HTTPError become an
// opaque 500; 5xx errors are logged with their cause.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = NewHTTPError(http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError), WithCause(err))
	}

	if he.Status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", he.Status),
			slog.Any("error", he.Err),
		)
	}

	writeJSON(w, he.Status, errorBody{
		Error:     he.Message,
		Code:      he.Code,
		Fields:    he.Fields,
		RequestID: middlewares.GetRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// panicHandler renders recovered panics as JSON 500s.
func panicHandler(log *slog.Logger) func(http.ResponseWriter, *http.Request, *middlewares.PanicError) {
	return func(w http.ResponseWriter, r *http.Request, pe *middlewares.PanicError) {
		writeError(w, r, log, NewHTTPError(http.StatusInternalServerError, "internal",
			http.StatusText(http.StatusInternalServerError), WithCause(pe)))
	}
}
