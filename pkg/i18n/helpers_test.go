package i18n_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lightside/site/pkg/cache"
	"github.com/lightside/site/pkg/i18n"
)

// fakeSource wraps an FSSource, counting fetches per locale and optionally
// holding fetches of a locale until released.
type fakeSource struct {
	src *i18n.FSSource

	mu     sync.Mutex
	counts map[string]int
	gates  map[string]chan struct{}
	errs   map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		src:    i18n.NewFSSource(localesFS()),
		counts: make(map[string]int),
		gates:  make(map[string]chan struct{}),
		errs:   make(map[string]error),
	}
}

func (s *fakeSource) Fetch(ctx context.Context, namespace, locale string) (*i18n.Tree, error) {
	s.mu.Lock()
	s.counts[locale]++
	gate := s.gates[locale]
	err := s.errs[locale]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return s.src.Fetch(ctx, namespace, locale)
}

// hold makes fetches of locale block until the returned func is called.
func (s *fakeSource) hold(locale string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[locale] = gate
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (s *fakeSource) fail(locale string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, locale)
		return
	}
	s.errs[locale] = err
}

func (s *fakeSource) count(locale string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[locale]
}

func newLoader(t *testing.T, src i18n.Source, opts ...i18n.LoaderOption) *i18n.Loader {
	t.Helper()

	l, err := i18n.NewLoader(src, opts...)
	require.NoError(t, err)
	return l
}

// countingCache is a shared tree cache that records the traffic reaching it.
type countingCache struct {
	cache.Cache[*i18n.Tree]

	mu   sync.Mutex
	gets int
	ttls []time.Duration
}

func newCountingCache() *countingCache {
	return &countingCache{Cache: cache.NewMemory[*i18n.Tree]()}
}

func (c *countingCache) Get(ctx context.Context, key string) (*i18n.Tree, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Cache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, v *i18n.Tree, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls = append(c.ttls, ttl)
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, v, ttl)
}

func (c *countingCache) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func (c *countingCache) setTTLs() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.ttls...)
}
