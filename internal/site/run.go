package site

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightside/site/internal/contact"
	"github.com/lightside/site/middlewares"
	"github.com/lightside/site/pkg/cache"
	"github.com/lightside/site/pkg/cookie"
	"github.com/lightside/site/pkg/health"
	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/logger"
	"github.com/lightside/site/pkg/mailer"
	"github.com/lightside/site/pkg/mailer/resend"
	"github.com/lightside/site/pkg/redis"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 15 * time.Second
	sentryFlushTimeout       = 2 * time.Second
)

// Run wires the site from cfg and serves until ctx is done or SIGINT/SIGTERM
// arrives.
func Run(ctx context.Context, cfg Config) error {
	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	defer logger.Flush(sentryFlushTimeout)

	checks := health.Checks{}
	var shutdownHooks []func(context.Context) error

	var treeCache cache.Cache[*i18n.Tree]
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		checks["redis"] = redis.Healthcheck(client)
		shutdownHooks = append(shutdownHooks, redis.Shutdown(client))
		treeCache = cache.NewRedis[*i18n.Tree](client, nil, cache.WithPrefix(treeCachePrefix(cfg.LocalesVersion)))
	}

	src, kind, err := newSource(cfg)
	if err != nil {
		return err
	}
	loader, err := i18n.NewLoader(src,
		i18n.WithDefaultLocale(cfg.DefaultLocale),
		i18n.WithSupportedLocales(cfg.SupportedLocales...),
		i18n.WithCache(treeCache),
		i18n.WithCacheTTL(cfg.LocalesCacheTTL),
		i18n.WithLoaderLogger(log),
	)
	if err != nil {
		return err
	}
	log.Info("translations configured",
		slog.String("source", kind),
		slog.String("default", loader.DefaultLocale()),
		slog.Any("supported", loader.SupportedLocales()),
	)
	if err := warmUp(ctx, loader); err != nil {
		log.Warn("translation warm-up incomplete", slog.Any("error", err))
	}
	checks["translations"] = func(ctx context.Context) error {
		_, err := loader.Load(ctx, i18n.DefaultNamespace, loader.DefaultLocale())
		return err
	}

	handler := NewRouter(cfg, Deps{
		Loader:  loader,
		Contact: newContactService(cfg, log),
		Cookies: cookie.FromConfig(cfg.Cookie),
		Checks:  checks,
		Logger:  log,
	})

	return runServer(ctx, serverConfig{
		handler:         handler,
		address:         cfg.Addr,
		logger:          log,
		shutdownTimeout: cfg.ShutdownTimeout,
		shutdownHooks:   shutdownHooks,
	})
}

// newContactService returns nil when no delivery is configured.
func newContactService(cfg Config, log *slog.Logger) *contact.Service {
	var subs []contact.Submitter
	if cfg.ContactEndpoint != "" {
		subs = append(subs, contact.NewForwarder(cfg.ContactEndpoint))
	}
	if len(cfg.ContactTo) > 0 {
		m := mailer.New(resend.New(cfg.Resend), mailer.NewRenderer(contact.Templates()), cfg.Mailer)
		subs = append(subs, contact.NewMailSubmitter(m, cfg.ContactTo...))
	}
	if len(subs) == 0 {
		log.Warn("contact form disabled: set CONTACT_ENDPOINT or CONTACT_TO")
		return nil
	}
	return contact.NewService(log, subs...)
}

// serverConfig holds configuration for running the HTTP server.
type serverConfig struct {
	handler         http.Handler
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	shutdownHooks   []func(context.Context) error
	listening       func(addr net.Addr) // test hook
}

// runServer starts the HTTP server and blocks until shutdown.
func runServer(ctx context.Context, cfg serverConfig) error {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	log := cfg.logger
	if log == nil {
		log = logger.NewNope()
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen first to get the actual address
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	if cfg.listening != nil {
		cfg.listening(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}
