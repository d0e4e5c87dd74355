package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source fetches the translation tree of one (namespace, locale) pair.
// Implementations report a missing resource with an error wrapping
// ErrNotFound; that is the only error the Loader answers with a fallback.
type Source interface {
	Fetch(ctx context.Context, namespace, locale string) (*Tree, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, namespace, locale string) (*Tree, error)

// Fetch implements Source.
func (fn SourceFunc) Fetch(ctx context.Context, namespace, locale string) (*Tree, error) {
	return fn(ctx, namespace, locale)
}

// Decode parses a translation document. ext selects the format: ".json",
// ".yaml" or ".yml".
func Decode(ext string, data []byte) (*Tree, error) {
	var raw map[string]any
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrMalformed, ext)
	}
	return NewTree(raw)
}

// sourceExts is the lookup order for files of one namespace.
var sourceExts = []string{".json", ".yaml", ".yml"}

// FSSource reads translations from an fs.FS laid out as
// {locale}/{namespace}.json (or .yaml / .yml):
//
//	en/default.json
//	en/privacy.yaml
//	ru/default.json
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a Source over fsys. The root of fsys must contain the
// locale directories directly; use fs.Sub for embedded trees.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, namespace, locale string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validSegment(locale) || !validSegment(namespace) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, namespace)
	}

	for _, ext := range sourceExts {
		name := path.Join(locale, namespace+ext)
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %v", ErrUnreachable, name, err)
		}
		tree, err := Decode(ext, data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", name, err)
		}
		return tree, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, namespace)
}

// Locales lists the locale directories present in the source, sorted.
func (s *FSSource) Locales() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}
	var locales []string
	for _, e := range entries {
		if e.IsDir() && validSegment(e.Name()) {
			locales = append(locales, e.Name())
		}
	}
	slices.Sort(locales)
	return locales, nil
}

// validSegment rejects names that would escape the locale layout.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// maxHTTPSourceBody bounds a single translation document fetched over HTTP.
const maxHTTPSourceBody = 4 << 20

// HTTPSource fetches {base}/{locale}/{namespace}.json over HTTP.
type HTTPSource struct {
	client *http.Client
	base   *url.URL
}

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default client (10 second timeout).
func WithHTTPClient(c *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPSource creates a Source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPSourceOption) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid source URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("i18n: invalid source URL scheme %q", u.Scheme)
	}
	s := &HTTPSource{
		client: &http.Client{Timeout: 10 * time.Second},
		base:   u,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, namespace, locale string) (*Tree, error) {
	if !validSegment(locale) || !validSegment(namespace) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, namespace)
	}

	u := s.base.JoinPath(locale, namespace+".json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s responded %d", ErrUnreachable, u, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHTTPSourceBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnreachable, u, err)
	}
	return Decode(".json", data)
}

var (
	_ Source = (*FSSource)(nil)
	_ Source = (*HTTPSource)(nil)
	_ Source = SourceFunc(nil)
)
