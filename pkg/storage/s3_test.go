package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		store, err := New(Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
		})
		require.NoError(t, err)
		require.NotNil(t, store.client)
		require.Equal(t, DefaultRegion, store.cfg.Region)
		require.Equal(t, ACLPrivate, store.cfg.DefaultACL)
		require.Equal(t, "test-bucket", store.Bucket())
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()
		store, err := New(Config{Bucket: "test-bucket"})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, store)
	})

	t.Run("unknown ACL", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{
			Bucket:     "test-bucket",
			AccessKey:  "a",
			SecretKey:  "s",
			DefaultACL: "world-writable",
		})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		require.False(t, Config{}.Enabled())
		require.True(t, Config{Bucket: "b"}.Enabled())
	})
}

func TestSanitizePathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "locales", "locales"},
		{"locale tag", "pt-BR", "pt-BR"},
		{"with spaces", "my folder", "my_folder"},
		{"with slashes", "/path/to/", "path_to"},
		{"path traversal", "../../../etc/passwd", "___etc_passwd"},
		{"special chars", "file@#$%name", "file____name"},
		{"leading dots", "..hidden", "hidden"},
		{"unicode", "файл", "____"},
		{"empty", "", ""},
		{"dots allowed", "default.json", "default.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizePathSegment(tt.input))
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "locales/en/default.json", Key("locales", "en", "default.json"))
	require.Equal(t, "en/default.json", Key("", "en", "default.json"))
	require.Equal(t, "locales/_etc/default.json", Key("locales", "../etc", "default.json"))
}

func TestS3Storage_PublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "default S3 URL",
			cfg:  Config{Bucket: "test-bucket", Region: "us-east-1"},
			want: "https://test-bucket.s3.us-east-1.amazonaws.com/locales/en/default.json",
		},
		{
			name: "custom public URL with trailing slash",
			cfg:  Config{Bucket: "test-bucket", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/locales/en/default.json",
		},
		{
			name: "custom endpoint path style",
			cfg:  Config{Bucket: "test-bucket", Endpoint: "http://localhost:9000", PathStyle: true},
			want: "http://localhost:9000/test-bucket/locales/en/default.json",
		},
		{
			name: "custom endpoint virtual host style",
			cfg:  Config{Bucket: "test-bucket", Endpoint: "http://localhost:9000"},
			want: "http://localhost:9000/locales/en/default.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &S3Storage{cfg: tt.cfg}
			require.Equal(t, tt.want, store.PublicURL("locales/en/default.json"))
		})
	}
}

// fakeS3 serves a path-style bucket from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = data
		f.headers[r.URL.Path] = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeStore(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: make(map[string][]byte), headers: make(map[string]http.Header)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := New(Config{
		Bucket:    "locales",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  srv.URL,
		PathStyle: true,
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3Storage_PutGet(t *testing.T) {
	t.Parallel()

	store, fake := newFakeStore(t)
	ctx := context.Background()

	data := []byte(`{"hero":{"title":"Light Side"}}`)
	info, err := store.Put(ctx, "v1/en/default.json", bytes.NewReader(data), int64(len(data)),
		WithContentType("application/json"),
		WithCacheControl("public, max-age=300"),
		WithACL(ACLPublicRead),
	)
	require.NoError(t, err)
	require.Equal(t, "v1/en/default.json", info.Key)
	require.Equal(t, ACLPublicRead, info.ACL)

	fake.mu.Lock()
	hdr := fake.headers["/locales/v1/en/default.json"]
	fake.mu.Unlock()
	require.Equal(t, "application/json", hdr.Get("Content-Type"))
	require.Equal(t, "public, max-age=300", hdr.Get("Cache-Control"))
	require.Equal(t, "public-read", hdr.Get("X-Amz-Acl"))

	rc, err := store.Get(ctx, "v1/en/default.json")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestS3Storage_GetMissing(t *testing.T) {
	t.Parallel()

	store, _ := newFakeStore(t)

	_, err := store.Get(context.Background(), "v1/xx/default.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3Storage_PutEmptyKey(t *testing.T) {
	t.Parallel()

	store, _ := newFakeStore(t)

	_, err := store.Put(context.Background(), "", bytes.NewReader(nil), 0)
	require.ErrorIs(t, err, ErrInvalidKey)
}
