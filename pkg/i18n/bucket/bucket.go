// Package bucket serves translation resources published to object storage
// as {prefix}/{locale}/{namespace}.json.
package bucket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/storage"
)

// maxObjectSize bounds a single translation document.
const maxObjectSize = 4 << 20

// Getter reads objects. *storage.S3Storage implements it.
type Getter interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Source is an i18n.Source reading from a bucket.
type Source struct {
	store  Getter
	prefix string
}

// New creates a Source reading objects under prefix.
func New(store Getter, prefix string) *Source {
	return &Source{store: store, prefix: prefix}
}

// Key returns the object key of a (namespace, locale) resource.
func Key(prefix, namespace, locale string) string {
	return storage.Key(prefix, locale, namespace+".json")
}

// Fetch implements i18n.Source.
func (s *Source) Fetch(ctx context.Context, namespace, locale string) (*i18n.Tree, error) {
	key := Key(s.prefix, namespace, locale)

	rc, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", i18n.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", i18n.ErrUnreachable, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxObjectSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", i18n.ErrUnreachable, key, err)
	}
	return i18n.Decode(".json", data)
}

// Putter writes objects. *storage.S3Storage implements it.
type Putter interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, opts ...storage.Option) (*storage.ObjectInfo, error)
}

// Publish uploads an encoded JSON resource so that a Source with the same
// prefix serves it. It returns the object key.
func Publish(ctx context.Context, store Putter, prefix, namespace, locale string, data []byte, opts ...storage.Option) (string, error) {
	key := Key(prefix, namespace, locale)
	opts = append([]storage.Option{
		storage.WithContentType("application/json; charset=utf-8"),
		storage.WithCacheControl("no-cache"),
	}, opts...)

	if _, err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), opts...); err != nil {
		return "", fmt.Errorf("publishing %s: %w", key, err)
	}
	return key, nil
}

var _ i18n.Source = (*Source)(nil)
