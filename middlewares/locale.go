package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lightside/site/pkg/cookie"
	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/logger"
)

// DefaultLocaleCookie is the cookie the chosen locale is stored in.
const DefaultLocaleCookie = "locale"

// ErrResponseDone is returned by CookiePreference.Set once the response it
// was bound to has been handed back to the server.
var ErrResponseDone = errors.New("middlewares: response already finished")

// runtimeKey is the context key for the request Runtime.
type runtimeKey struct{}

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	Cookies    *cookie.Manager
	Logger     *slog.Logger
	Namespace  string
	CookieName string
	MaxAge     int // cookie lifetime in seconds
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithLocaleNamespace sets the namespace the request Runtime binds.
func WithLocaleNamespace(ns string) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Namespace = ns
	}
}

// WithLocaleCookie sets the cookie manager, name and lifetime used for the
// locale preference.
func WithLocaleCookie(m *cookie.Manager, name string, maxAge int) LocaleOption {
	return func(cfg *LocaleConfig) {
		if m != nil {
			cfg.Cookies = m
		}
		if name != "" {
			cfg.CookieName = name
		}
		cfg.MaxAge = maxAge
	}
}

// WithLocaleLogger sets the logger passed to each request Runtime.
func WithLocaleLogger(log *slog.Logger) LocaleOption {
	return func(cfg *LocaleConfig) {
		if log != nil {
			cfg.Logger = log
		}
	}
}

// Locale returns middleware that builds a Runtime for each request and stores
// it in the request context. The initial locale is the cookie preference,
// then the best Accept-Language match, then the loader's default.
//
// Trees come from the shared loader cache, so after warm-up Init does not
// touch the source. A failed Init is logged and the request continues: T
// returns keys and the Runtime reports StatusError.
func Locale(loader *i18n.Loader, opts ...LocaleOption) func(http.Handler) http.Handler {
	cfg := &LocaleConfig{
		Cookies:    cookie.New(),
		Logger:     logger.NewNope(),
		Namespace:  i18n.DefaultNamespace,
		CookieName: DefaultLocaleCookie,
		MaxAge:     365 * 24 * 60 * 60,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	supported := loader.SupportedLocales()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pref := NewCookiePreference(cfg.Cookies, cfg.CookieName, cfg.MaxAge, w, r)
			defer pref.Close()

			rt := i18n.New(loader,
				i18n.WithNamespace(cfg.Namespace),
				i18n.WithPreference(pref),
				i18n.WithDetector(i18n.DetectFromAcceptLanguage(r.Header.Get("Accept-Language"), supported...)),
				i18n.WithLogger(cfg.Logger),
			)

			if err := rt.Init(r.Context()); err != nil {
				cfg.Logger.WarnContext(r.Context(), "locale init failed",
					slog.String("namespace", cfg.Namespace),
					slog.Any("error", err),
				)
			}

			next.ServeHTTP(w, r.WithContext(WithRuntime(r.Context(), rt)))
		})
	}
}

// WithRuntime returns a copy of ctx carrying rt.
func WithRuntime(ctx context.Context, rt *i18n.Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// GetRuntime extracts the request Runtime from the context.
// Returns nil if the Locale middleware is not used.
func GetRuntime(ctx context.Context) *i18n.Runtime {
	if v, ok := ctx.Value(runtimeKey{}).(*i18n.Runtime); ok {
		return v
	}
	return nil
}

// CookiePreference is an i18n.Preference stored in a cookie of one request.
// Set writes a response header, so it must run before the body is written.
// A switch may settle after its caller stopped waiting; once Close is called
// Set no longer touches the response.
type CookiePreference struct {
	mu      sync.Mutex
	closed  bool
	cookies *cookie.Manager
	w       http.ResponseWriter
	r       *http.Request
	name    string
	maxAge  int
}

// NewCookiePreference returns a preference bound to one request/response pair.
func NewCookiePreference(m *cookie.Manager, name string, maxAge int, w http.ResponseWriter, r *http.Request) *CookiePreference {
	return &CookiePreference{cookies: m, name: name, maxAge: maxAge, w: w, r: r}
}

// Get implements i18n.Preference.
func (p *CookiePreference) Get() (string, bool) {
	v, err := p.cookies.Read(p.r, p.name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Set implements i18n.Preference.
func (p *CookiePreference) Set(locale string) error {
	if locale == "" {
		return i18n.ErrEmptyLocale
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.r.Context().Err() != nil {
		return ErrResponseDone
	}
	p.cookies.Write(p.w, p.name, locale, p.maxAge)
	return nil
}

// Close detaches the preference from its response.
func (p *CookiePreference) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
