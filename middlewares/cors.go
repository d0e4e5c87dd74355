package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultCORSMaxAge is how long browsers may cache a preflight answer.
const DefaultCORSMaxAge = 12 * time.Hour

// CORSConfig describes which cross-origin callers may use the site API.
// Fields not set through an option keep the defaults listed on CORS.
type CORSConfig struct {
	Origins     []string
	OriginFunc  func(origin string) bool
	Methods     []string
	Headers     []string
	Expose      []string
	Credentials bool
	MaxAge      time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins lists the allowed origins. "*" allows any.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.Origins = origins }
}

// WithAllowOriginFunc decides per origin and takes precedence over the list.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) { cfg.OriginFunc = fn }
}

// WithAllowMethods sets the methods announced on preflight.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.Methods = methods }
}

// WithAllowHeaders sets the request headers announced on preflight.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.Headers = headers }
}

// WithExposeHeaders sets the response headers scripts may read.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.Expose = headers }
}

// WithAllowCredentials lets browsers send the locale cookie cross-origin.
// The request origin is echoed instead of "*".
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) { cfg.Credentials = true }
}

// WithMaxAge sets the preflight cache duration. Zero omits the header.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) { cfg.MaxAge = d }
}

type corsPolicy struct {
	cfg     CORSConfig
	anyOrig bool
	methods string
	headers string
	expose  string
	maxAge  string
}

// CORS answers preflight requests and marks allowed cross-origin responses.
// Defaults: any origin, GET/POST/OPTIONS, the headers the site front end
// sends (Content-Type, Accept-Language, X-Request-ID) and a 12h max age.
// Disallowed origins get no CORS headers and the browser blocks the
// response.
func CORS(opts ...CORSOption) func(http.Handler) http.Handler {
	cfg := CORSConfig{
		Origins: []string{"*"},
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		Headers: []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID"},
		MaxAge:  DefaultCORSMaxAge,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &corsPolicy{
		cfg:     cfg,
		anyOrig: slices.Contains(cfg.Origins, "*"),
		methods: strings.Join(cfg.Methods, ", "),
		headers: strings.Join(cfg.Headers, ", "),
		expose:  strings.Join(cfg.Expose, ", "),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !p.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}

			p.mark(w.Header(), origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				p.preflight(w.Header())
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p *corsPolicy) allows(origin string) bool {
	if p.cfg.OriginFunc != nil {
		return p.cfg.OriginFunc(origin)
	}
	return p.anyOrig || slices.Contains(p.cfg.Origins, origin)
}

func (p *corsPolicy) mark(h http.Header, origin string) {
	h.Add("Vary", "Origin")
	if p.anyOrig && !p.cfg.Credentials {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
	}
	if p.cfg.Credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if p.expose != "" {
		h.Set("Access-Control-Expose-Headers", p.expose)
	}
}

func (p *corsPolicy) preflight(h http.Header) {
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")
	h.Set("Access-Control-Allow-Methods", p.methods)
	h.Set("Access-Control-Allow-Headers", p.headers)
	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}
}
