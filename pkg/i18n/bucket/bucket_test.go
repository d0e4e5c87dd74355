package bucket_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/i18n/bucket"
	"github.com/lightside/site/pkg/storage"
)

type memoryBucket map[string]string

func (m memoryBucket) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if key == "broken/en/default.json" {
		return nil, errors.New("connection reset")
	}
	data, ok := m[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewBufferString(data)), nil
}

func (m memoryBucket) Put(_ context.Context, key string, r io.Reader, _ int64, _ ...storage.Option) (*storage.ObjectInfo, error) {
	if key == "broken/en/default.json" {
		return nil, errors.New("access denied")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m[key] = string(data)
	return &storage.ObjectInfo{Key: key}, nil
}

func TestSource(t *testing.T) {
	t.Parallel()

	store := memoryBucket{
		"v1/en/default.json": `{"hero": {"title": "Light Side"}}`,
		"v1/ru/default.json": `{"hero": `,
	}
	ctx := context.Background()

	t.Run("reads object", func(t *testing.T) {
		t.Parallel()

		tree, err := bucket.New(store, "v1").Fetch(ctx, "default", "en")
		require.NoError(t, err)
		title, ok := i18n.Resolve(tree, "hero.title")
		require.True(t, ok)
		require.Equal(t, "Light Side", title)
	})

	t.Run("missing object is not found", func(t *testing.T) {
		t.Parallel()

		_, err := bucket.New(store, "v1").Fetch(ctx, "privacy", "en")
		require.ErrorIs(t, err, i18n.ErrNotFound)
	})

	t.Run("storage failure is unreachable", func(t *testing.T) {
		t.Parallel()

		_, err := bucket.New(store, "broken").Fetch(ctx, "default", "en")
		require.ErrorIs(t, err, i18n.ErrUnreachable)
	})

	t.Run("bad document is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := bucket.New(store, "v1").Fetch(ctx, "default", "ru")
		require.ErrorIs(t, err, i18n.ErrMalformed)
	})

	t.Run("falls back through loader", func(t *testing.T) {
		t.Parallel()

		loader, err := i18n.NewLoader(bucket.New(store, "v1"))
		require.NoError(t, err)

		tree, err := loader.Load(ctx, "default", "en-GB")
		require.NoError(t, err)
		title, _ := i18n.Resolve(tree, "hero.title")
		require.Equal(t, "Light Side", title)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "v1/pt-BR/privacy.json", bucket.Key("v1", "privacy", "pt-BR"))
	require.Equal(t, "en/default.json", bucket.Key("", "default", "en"))
}

func TestPublish(t *testing.T) {
	t.Parallel()

	store := memoryBucket{}
	ctx := context.Background()

	key, err := bucket.Publish(ctx, store, "v2", "default", "ru", []byte(`{"hero": {"title": "Светлая сторона"}}`))
	require.NoError(t, err)
	require.Equal(t, "v2/ru/default.json", key)

	tree, err := bucket.New(store, "v2").Fetch(ctx, "default", "ru")
	require.NoError(t, err)
	title, ok := i18n.Resolve(tree, "hero.title")
	require.True(t, ok)
	require.Equal(t, "Светлая сторона", title)

	_, err = bucket.Publish(ctx, store, "broken", "default", "en", []byte(`{}`))
	require.Error(t, err)
}
