package site

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/lightside/site/internal/contact"
	"github.com/lightside/site/middlewares"
	"github.com/lightside/site/pkg/cookie"
	"github.com/lightside/site/pkg/health"
	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/logger"
)

// Deps are the services the router serves.
type Deps struct {
	Loader  *i18n.Loader
	Contact *contact.Service // nil disables the contact endpoint
	Cookies *cookie.Manager
	Checks  health.Checks
	Logger  *slog.Logger
}

// NewRouter builds the site's HTTP handler.
func NewRouter(cfg Config, d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logger.NewNope()
	}
	if d.Cookies == nil {
		d.Cookies = cookie.FromConfig(cfg.Cookie)
	}

	h := &handlers{
		loader:  d.Loader,
		contact: d.Contact,
		logger:  d.Logger,
	}

	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(
			middlewares.WithRecoverLogger(d.Logger),
			middlewares.WithRecoverErrorHandler(panicHandler(d.Logger)),
		),
	)

	r.Get("/healthz", health.ReadinessHandler(d.Checks, health.WithLogger(d.Logger)))
	r.Get("/healthz/live", health.LivenessHandler())

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Timeout(cfg.RequestTimeout))
		r.Get("/locales/{locale}/{namespace}.json", h.getBundle)
	})

	r.Route("/api", func(r chi.Router) {
		corsOpts := []middlewares.CORSOption{middlewares.WithAllowCredentials()}
		if len(cfg.CORSOrigins) > 0 {
			corsOpts = append(corsOpts, middlewares.WithAllowOrigins(cfg.CORSOrigins...))
		}
		r.Use(
			middlewares.CORS(corsOpts...),
			middlewares.Timeout(cfg.RequestTimeout),
			middlewares.Locale(d.Loader,
				middlewares.WithLocaleCookie(d.Cookies, cfg.LocaleCookie, cfg.Cookie.MaxAge),
				middlewares.WithLocaleLogger(d.Logger),
			),
		)
		r.Get("/locale", h.getLocale)
		r.Post("/locale", h.setLocale)
		r.Post("/contact", h.submitContact)
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
		d.Logger.Info("serving static files", slog.String("dir", cfg.StaticDir))
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			d.Logger.Warn("static dir not accessible", slog.Any("error", err))
		}
	}

	return r
}
