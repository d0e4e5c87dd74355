package i18n

import (
	"context"
	"html/template"
	"log/slog"
	"sync"

	"github.com/lightside/site/pkg/logger"
)

// DefaultNamespace is the namespace bound when none is configured.
const DefaultNamespace = "default"

// Status is the lifecycle phase of a Runtime.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a consistent view of a Runtime at one moment.
type State struct {
	Namespace string
	Locale    string
	Status    Status
	Err       error
}

// MissingKeyHandler is called when T cannot resolve a key against a loaded
// tree.
type MissingKeyHandler func(namespace, locale, key string)

// Runtime holds the active locale and translation tree of one namespace and
// switches locale without blocking readers. T never waits for a load: it
// reads whatever tree is active when called.
//
// The active tree only changes to a fully loaded tree for the new locale.
// When several switches overlap, only the most recent one settles the state.
type Runtime struct {
	loader    *Loader
	namespace string
	pref      Preference
	detector  Detector
	fallback  string
	logger    *slog.Logger
	onMissing MissingKeyHandler
	markup    Sanitizer

	mu          sync.RWMutex
	locale      string
	tree        *Tree
	status      Status
	err         error
	seq         uint64
	pending     *request
	initialized bool
	ready       chan struct{}
	readyOnce   sync.Once

	lmu       sync.Mutex
	listeners []listener
	nextID    uint64
}

// request is one locale switch in flight. done is closed once it settles or
// is superseded; err is written before done is closed.
type request struct {
	locale string
	seq    uint64
	done   chan struct{}
	err    error
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithNamespace binds the namespace. Default: "default".
func WithNamespace(namespace string) Option {
	return func(r *Runtime) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithPreference sets where the chosen locale is read at Init and persisted
// after each successful switch.
func WithPreference(p Preference) Option {
	return func(r *Runtime) {
		r.pref = p
	}
}

// WithDetector sets the platform locale guess used at Init when no
// preference is stored.
func WithDetector(d Detector) Option {
	return func(r *Runtime) {
		r.detector = d
	}
}

// WithFallbackLocale sets the Init locale used when neither the preference
// nor the detector yields one. Default: the loader's default locale.
func WithFallbackLocale(locale string) Option {
	return func(r *Runtime) {
		if locale != "" {
			r.fallback = locale
		}
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runtime) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithMissingKeyHandler replaces the default handler, which logs missing
// keys at debug level.
func WithMissingKeyHandler(fn MissingKeyHandler) Option {
	return func(r *Runtime) {
		r.onMissing = fn
	}
}

// WithSanitizer sets the policy HTML applies to translated markup.
// Default: MarkupPolicy().
func WithSanitizer(s Sanitizer) Option {
	return func(r *Runtime) {
		if s != nil {
			r.markup = s
		}
	}
}

// New creates an idle Runtime. Call Init to load the first locale.
func New(loader *Loader, opts ...Option) *Runtime {
	r := &Runtime{
		loader:    loader,
		namespace: DefaultNamespace,
		fallback:  loader.DefaultLocale(),
		logger:    logger.NewNope(),
		ready:     make(chan struct{}),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onMissing == nil {
		r.onMissing = func(namespace, locale, key string) {
			r.logger.Debug("missing translation",
				slog.String("namespace", namespace),
				slog.String("locale", locale),
				slog.String("key", key),
			)
		}
	}
	if r.markup == nil {
		r.markup = MarkupPolicy()
	}
	return r
}

// Init chooses the initial locale (preference, then detector, then the
// fallback locale) and loads it. Ready is closed once the load settles,
// whatever the outcome. Calling Init again waits for Ready and returns the
// current error.
//
// A locale chosen by SetLocale before Init wins: Init then only waits for
// that switch and does not load the initial locale.
func (r *Runtime) Init(ctx context.Context) error {
	locale := r.initialLocale()

	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		select {
		case <-r.ready:
			return r.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.initialized = true

	if r.tree != nil || r.pending != nil {
		p := r.pending
		r.mu.Unlock()
		r.logger.DebugContext(ctx, "i18n init skipped, locale already set",
			slog.String("namespace", r.namespace),
		)
		if p == nil {
			return r.Err()
		}
		return wait(ctx, p)
	}

	req, state := r.registerLocked(locale)
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "i18n init",
		slog.String("namespace", r.namespace),
		slog.String("locale", locale),
	)
	r.notify(state)
	go r.run(context.WithoutCancel(ctx), req, false)
	return wait(ctx, req)
}

func (r *Runtime) initialLocale() string {
	if r.pref != nil {
		if loc, ok := r.pref.Get(); ok {
			if canon, ok := r.loader.Supports(loc); ok {
				return canon
			}
		}
	}
	if r.detector != nil {
		if loc, ok := r.detector(); ok {
			if canon, ok := r.loader.Supports(loc); ok {
				return canon
			}
		}
	}
	return r.fallback
}

func (r *Runtime) canonical(locale string) string {
	if canon, ok := r.loader.Supports(locale); ok {
		return canon
	}
	return locale
}

// Ready is closed after the first load settles, successfully or not.
func (r *Runtime) Ready() <-chan struct{} {
	return r.ready
}

// SetLocale switches to locale and blocks until the switch settles or ctx is
// done. The load itself is not bound to ctx: a caller that gives up gets
// ctx.Err() while the switch keeps running and settles for everyone else.
//
// Requesting the locale most recently requested does not load again: if
// that request is still in flight the caller waits for it and shares its
// result. A switch superseded by a later one is dropped and returns nil.
// On failure the previous locale and tree stay active, the status becomes
// StatusError and the *LoadError is returned.
func (r *Runtime) SetLocale(ctx context.Context, locale string) error {
	if locale == "" {
		return &LoadError{Namespace: r.namespace, Err: ErrEmptyLocale}
	}
	req := r.start(ctx, r.canonical(locale), true)
	if req == nil {
		return nil
	}
	return wait(ctx, req)
}

// start registers a switch to locale and launches its load. The switch is
// ordered against other switches when start returns. It returns nil when
// locale is already active.
func (r *Runtime) start(ctx context.Context, locale string, persist bool) *request {
	r.mu.Lock()

	if p := r.pending; p != nil && p.locale == locale {
		r.mu.Unlock()
		return p
	}

	if r.tree != nil && r.locale == locale {
		// Already active: drop any other switch in flight.
		changed := r.pending != nil || r.status != StatusReady
		r.seq++
		r.pending = nil
		r.status = StatusReady
		r.err = nil
		state := r.stateLocked()
		r.mu.Unlock()
		if changed {
			r.notify(state)
		}
		return nil
	}

	req, state := r.registerLocked(locale)
	r.mu.Unlock()
	r.notify(state)

	go r.run(context.WithoutCancel(ctx), req, persist)
	return req
}

// registerLocked makes a new request for locale the pending one.
// Callers hold r.mu.
func (r *Runtime) registerLocked(locale string) (*request, State) {
	r.seq++
	req := &request{locale: locale, seq: r.seq, done: make(chan struct{})}
	r.pending = req
	r.status = StatusLoading
	r.err = nil
	return req, r.stateLocked()
}

// run loads the tree for req and settles the state unless a later switch
// superseded req. The preference is written before req.done is closed so
// waiters observe it.
func (r *Runtime) run(ctx context.Context, req *request, persist bool) {
	tree, err := r.loader.Load(ctx, r.namespace, req.locale)

	r.mu.Lock()
	if req.seq != r.seq {
		close(req.done)
		r.mu.Unlock()
		r.logger.DebugContext(ctx, "locale switch superseded",
			slog.String("namespace", r.namespace),
			slog.String("locale", req.locale),
		)
		return
	}
	r.pending = nil
	if err != nil {
		r.status = StatusError
		r.err = err
	} else {
		r.locale = req.locale
		r.tree = tree
		r.status = StatusReady
		if persist && r.pref != nil {
			if perr := r.pref.Set(req.locale); perr != nil {
				r.logger.WarnContext(ctx, "failed to persist locale preference",
					slog.String("locale", req.locale),
					slog.Any("error", perr),
				)
			}
		}
	}
	req.err = err
	close(req.done)
	state := r.stateLocked()
	r.mu.Unlock()

	r.readyOnce.Do(func() { close(r.ready) })
	r.notify(state)
}

func wait(ctx context.Context, req *request) error {
	select {
	case <-req.done:
		return req.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// T translates key against the active tree, interpolating vars when given.
// It returns key itself when no tree is active yet or the key is missing.
func (r *Runtime) T(key string, vars ...Vars) string {
	r.mu.RLock()
	tree, locale := r.tree, r.locale
	r.mu.RUnlock()

	if tree == nil {
		return key
	}
	s, ok := Resolve(tree, key)
	if !ok {
		r.onMissing(r.namespace, locale, key)
		return key
	}
	if len(vars) == 0 {
		return s
	}
	return Interpolate(s, Merge(vars...))
}

// HTML is T for translations carrying markup. The result is sanitized and
// safe to insert into a page unescaped.
func (r *Runtime) HTML(key string, vars ...Vars) template.HTML {
	return template.HTML(r.markup.Sanitize(r.T(key, vars...))) //nolint:gosec // sanitized above
}

// Locale returns the active locale, empty before the first successful load.
func (r *Runtime) Locale() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locale
}

// Namespace returns the bound namespace.
func (r *Runtime) Namespace() string {
	return r.namespace
}

// Status returns the current lifecycle phase.
func (r *Runtime) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Err returns the cause of the last failed switch while the status is
// StatusError, nil otherwise.
func (r *Runtime) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Snapshot returns namespace, locale, status and error read together.
func (r *Runtime) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

func (r *Runtime) stateLocked() State {
	return State{
		Namespace: r.namespace,
		Locale:    r.locale,
		Status:    r.status,
		Err:       r.err,
	}
}
