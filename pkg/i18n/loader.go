package i18n

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lightside/site/pkg/cache"
	"github.com/lightside/site/pkg/logger"
)

// DefaultLocale is used when no default locale is configured.
const DefaultLocale = "en"

// LoaderStats are cumulative counters of a Loader.
type LoaderStats struct {
	Loads    int64 // Load calls
	Fetches  int64 // Source.Fetch calls
	Failures int64 // Load calls that returned an error
}

// Loader fetches translation trees through a Source, at most once per
// (namespace, locale) pair: concurrent loads of a pair share one fetch, and
// successful results are cached for the cache TTL (forever by default).
// Failures are not cached.
//
// Trees are always kept in process memory. A cache given with WithCache is
// a second tier behind it, shared with other processes.
type Loader struct {
	source        Source
	group         *cache.Group[*Tree]
	shared        cache.Cache[*Tree]
	ttl           time.Duration
	logger        *slog.Logger
	defaultLocale string
	supported     []string
	loads         atomic.Int64
	fetches       atomic.Int64
	failures      atomic.Int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDefaultLocale sets the locale whose resource is used when the requested
// locale has none. Default: "en".
func WithDefaultLocale(locale string) LoaderOption {
	return func(l *Loader) {
		if locale != "" {
			l.defaultLocale = locale
		}
	}
}

// WithSupportedLocales restricts the locales the Loader accepts. Requests
// for other locales fail with ErrUnsupportedLocale and never fall back.
// The default locale is always supported.
func WithSupportedLocales(locales ...string) LoaderOption {
	return func(l *Loader) {
		for _, loc := range locales {
			if loc = strings.TrimSpace(loc); loc != "" && !slices.Contains(l.supported, loc) {
				l.supported = append(l.supported, loc)
			}
		}
	}
}

// WithCache adds a cache shared between processes, e.g. Redis, behind the
// in-memory one. It is read only on an in-memory miss.
func WithCache(c cache.Cache[*Tree]) LoaderOption {
	return func(l *Loader) {
		l.shared = c
	}
}

// WithCacheTTL sets how long cached trees live in both tiers. Default: -1,
// never expire.
func WithCacheTTL(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d != 0 {
			l.ttl = d
		}
	}
}

// WithLoaderLogger sets the logger. Default: discard.
func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoader creates a Loader over src.
func NewLoader(src Source, opts ...LoaderOption) (*Loader, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	l := &Loader{
		source:        src,
		defaultLocale: DefaultLocale,
		logger:        logger.NewNope(),
		ttl:           -1,
	}
	for _, opt := range opts {
		opt(l)
	}

	var trees cache.Cache[*Tree] = cache.NewMemory[*Tree]()
	if l.shared != nil {
		trees = cache.NewTiered(trees, l.shared, l.ttl)
	}
	l.group = cache.NewGroup(trees, l.ttl)

	if len(l.supported) > 0 && !slices.Contains(l.supported, l.defaultLocale) {
		l.supported = append([]string{l.defaultLocale}, l.supported...)
	}
	return l, nil
}

// DefaultLocale returns the fallback locale.
func (l *Loader) DefaultLocale() string {
	return l.defaultLocale
}

// SupportedLocales returns the configured locales, default first. Empty
// means any locale is accepted.
func (l *Loader) SupportedLocales() []string {
	return slices.Clone(l.supported)
}

// Supports reports whether locale is accepted and returns its canonical
// spelling: the configured entry matching case-insensitively, else the
// configured entry for its base language ("pt-BR" -> "pt").
func (l *Loader) Supports(locale string) (string, bool) {
	if locale == "" {
		return "", false
	}
	if len(l.supported) == 0 {
		return locale, true
	}
	for _, s := range l.supported {
		if strings.EqualFold(s, locale) {
			return s, true
		}
	}
	base := baseLanguage(locale)
	for _, s := range l.supported {
		if strings.EqualFold(s, base) {
			return s, true
		}
	}
	return "", false
}

// Stats returns a snapshot of the Loader counters.
func (l *Loader) Stats() LoaderStats {
	return LoaderStats{
		Loads:    l.loads.Load(),
		Fetches:  l.fetches.Load(),
		Failures: l.failures.Load(),
	}
}

// Load returns the tree for (namespace, locale). A cached tree is returned
// without touching the Source. On a miss the chain locale -> base language ->
// default locale is tried, moving on only when the Source reports
// ErrNotFound. Errors are *LoadError.
func (l *Loader) Load(ctx context.Context, namespace, locale string) (*Tree, error) {
	l.loads.Add(1)

	tree, err := l.load(ctx, namespace, locale)
	if err != nil {
		l.failures.Add(1)
		l.logger.WarnContext(ctx, "translation load failed",
			slog.String("namespace", namespace),
			slog.String("locale", locale),
			slog.Any("error", err),
		)
		return nil, &LoadError{Namespace: namespace, Locale: locale, Err: err}
	}
	return tree, nil
}

func (l *Loader) load(ctx context.Context, namespace, locale string) (*Tree, error) {
	switch {
	case namespace == "":
		return nil, ErrEmptyNamespace
	case locale == "":
		return nil, ErrEmptyLocale
	}

	canon, ok := l.Supports(locale)
	if !ok {
		return nil, ErrUnsupportedLocale
	}

	return l.group.GetOrLoad(ctx, cacheKey(namespace, canon), func(ctx context.Context) (*Tree, error) {
		return l.fetchWithFallback(ctx, namespace, canon)
	})
}

func (l *Loader) fetchWithFallback(ctx context.Context, namespace, locale string) (*Tree, error) {
	var lastErr error
	for _, candidate := range l.fallbackChain(locale) {
		l.fetches.Add(1)
		tree, err := l.source.Fetch(ctx, namespace, candidate)
		if err == nil {
			if candidate != locale {
				l.logger.InfoContext(ctx, "translation fallback",
					slog.String("namespace", namespace),
					slog.String("requested", locale),
					slog.String("served", candidate),
				)
				_ = l.group.Cache().Set(ctx, cacheKey(namespace, candidate), tree, l.ttl)
			}
			return tree, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (l *Loader) fallbackChain(locale string) []string {
	chain := []string{locale}
	if base := baseLanguage(locale); base != locale {
		chain = append(chain, base)
	}
	if !slices.ContainsFunc(chain, func(c string) bool { return strings.EqualFold(c, l.defaultLocale) }) {
		chain = append(chain, l.defaultLocale)
	}
	return chain
}

func cacheKey(namespace, locale string) string {
	return namespace + ":" + locale
}

// baseLanguage strips the region from a language tag ("en-US" -> "en").
func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
