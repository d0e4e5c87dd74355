package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered reads through a process-local cache in front of a shared one.
// Hits on the shared tier are copied into the local tier, so a warm key
// costs one map lookup instead of a network round trip and a decode.
type Tiered[V any] struct {
	local   Cache[V]
	shared  Cache[V]
	fillTTL time.Duration
}

// NewTiered stacks local in front of shared. Values copied up from shared
// are stored locally with fillTTL.
func NewTiered[V any](local, shared Cache[V], fillTTL time.Duration) *Tiered[V] {
	return &Tiered[V]{local: local, shared: shared, fillTTL: fillTTL}
}

// Get checks the local tier, then the shared one.
func (t *Tiered[V]) Get(ctx context.Context, key string) (V, error) {
	if v, err := t.local.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := t.shared.Get(ctx, key)
	if err != nil {
		return v, err
	}
	_ = t.local.Set(ctx, key, v, t.fillTTL)
	return v, nil
}

// Set writes both tiers.
func (t *Tiered[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return errors.Join(
		t.local.Set(ctx, key, value, ttl),
		t.shared.Set(ctx, key, value, ttl),
	)
}

// Delete removes key from both tiers.
func (t *Tiered[V]) Delete(ctx context.Context, key string) error {
	return errors.Join(
		t.local.Delete(ctx, key),
		t.shared.Delete(ctx, key),
	)
}

// Close closes both tiers.
func (t *Tiered[V]) Close() error {
	return errors.Join(t.local.Close(), t.shared.Close())
}

var _ Cache[any] = (*Tiered[any])(nil)
