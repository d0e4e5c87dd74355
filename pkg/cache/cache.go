package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic key-value cache with TTL support.
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// Marshaler serializes and deserializes cache values for storage backends
// that require byte representation (e.g., Redis).
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Group coalesces concurrent loads of the same key in front of a Cache.
// The zero value is not usable; create one with NewGroup.
type Group[V any] struct {
	cache Cache[V]
	sf    singleflight.Group
	ttl   time.Duration
}

// NewGroup wraps c. Values produced by loaders are stored with ttl
// (negative = never expires).
func NewGroup[V any](c Cache[V], ttl time.Duration) *Group[V] {
	return &Group[V]{cache: c, ttl: ttl}
}

// Cache returns the underlying cache.
func (g *Group[V]) Cache() Cache[V] {
	return g.cache
}

// GetOrLoad returns the cached value for key or runs fn to produce it.
//
// At most one fn runs per key at a time; callers arriving while it runs wait
// for the same result. The value is stored before waiters are released.
// fn receives a context detached from the caller's cancellation so that one
// waiter giving up does not fail the others; each caller still stops waiting
// when its own ctx is done.
func (g *Group[V]) GetOrLoad(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := g.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (any, error) {
		// A previous flight may have filled the cache between our miss and
		// this flight starting.
		if v, err := g.cache.Get(loadCtx, key); err == nil {
			return v, nil
		}

		v, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}

		// Best-effort: a failing backend must not fail the load itself.
		_ = g.cache.Set(loadCtx, key, v, g.ttl)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
