package site

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lightside/site/internal/contact"
	"github.com/lightside/site/middlewares"
	"github.com/lightside/site/pkg/i18n"
)

type handlers struct {
	loader  *i18n.Loader
	contact *contact.Service
	logger  *slog.Logger
}

// getBundle serves a loaded translation tree. Pages fetch bundles from here
// so they share the server's fallback chain and cache.
func (h *handlers) getBundle(w http.ResponseWriter, r *http.Request) {
	locale, ok := h.loader.Supports(chi.URLParam(r, "locale"))
	if !ok {
		writeError(w, r, h.logger, NewHTTPError(http.StatusNotFound, "unsupported_locale", "unsupported locale"))
		return
	}
	namespace := chi.URLParam(r, "namespace")

	tree, err := h.loader.Load(r.Context(), namespace, locale)
	if err != nil {
		writeError(w, r, h.logger, loadHTTPError(err))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("Content-Language", locale)
	writeJSON(w, http.StatusOK, tree)
}

type localeState struct {
	Locale    string   `json:"locale"`
	Namespace string   `json:"namespace"`
	Status    string   `json:"status"`
	Supported []string `json:"supported"`
	Error     string   `json:"error,omitempty"`
}

func (h *handlers) state(rt *i18n.Runtime) localeState {
	s := rt.Snapshot()
	out := localeState{
		Locale:    s.Locale,
		Namespace: s.Namespace,
		Status:    s.Status.String(),
		Supported: h.loader.SupportedLocales(),
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

func (h *handlers) getLocale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state(middlewares.GetRuntime(r.Context())))
}

// setLocale switches the request runtime. On success the runtime persists
// the choice to the locale cookie before the response is written.
func (h *handlers) setLocale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, r, h.logger, NewHTTPError(http.StatusBadRequest, "bad_request", "invalid JSON body", WithCause(err)))
		return
	}

	rt := middlewares.GetRuntime(r.Context())
	if err := rt.SetLocale(r.Context(), req.Locale); err != nil {
		writeError(w, r, h.logger, loadHTTPError(err))
		return
	}
	writeJSON(w, http.StatusOK, h.state(rt))
}

type contactResponse struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (h *handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	rt := middlewares.GetRuntime(r.Context())

	if h.contact == nil {
		writeError(w, r, h.logger, NewHTTPError(http.StatusServiceUnavailable, "contact_disabled", rt.T("contact.form.disabled")))
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		writeError(w, r, h.logger, NewHTTPError(http.StatusBadRequest, "bad_request", rt.T("contact.form.error"), WithCause(err)))
		return
	}

	if err := h.contact.Submit(r.Context(), form); err != nil {
		if fields := contact.Fields(err); len(fields) > 0 {
			writeError(w, r, h.logger, NewHTTPError(http.StatusUnprocessableEntity, "invalid_form",
				rt.T("contact.form.invalid"), WithFields(fields...), WithCause(err)))
			return
		}
		writeError(w, r, h.logger, NewHTTPError(http.StatusBadGateway, "delivery_failed",
			rt.T("contact.form.error"), WithCause(err)))
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{OK: true, Message: rt.T("contact.form.sent")})
}

// readForm accepts JSON as well as url-encoded and multipart bodies.
func readForm(w http.ResponseWriter, r *http.Request) (contact.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var f contact.Form
		err := json.NewDecoder(r.Body).Decode(&f)
		return f, err
	}
	return contact.FormFromRequest(r)
}

// loadHTTPError maps loader and runtime failures to responses.
func loadHTTPError(err error) *HTTPError {
	switch {
	case errors.Is(err, i18n.ErrEmptyLocale), errors.Is(err, i18n.ErrEmptyNamespace):
		return NewHTTPError(http.StatusBadRequest, "bad_request", err.Error(), WithCause(err))
	case errors.Is(err, i18n.ErrUnsupportedLocale):
		return NewHTTPError(http.StatusUnprocessableEntity, "unsupported_locale", "unsupported locale", WithCause(err))
	case errors.Is(err, i18n.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not_found", "translations not found", WithCause(err))
	default:
		return NewHTTPError(http.StatusBadGateway, "source_failed", "translations unavailable", WithCause(err))
	}
}
