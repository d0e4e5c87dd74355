package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightside/site/middlewares"
	"github.com/lightside/site/pkg/cookie"
	"github.com/lightside/site/pkg/i18n"
)

func newLocaleLoader(t *testing.T) *i18n.Loader {
	t.Helper()

	fsys := fstest.MapFS{
		"en/default.json": &fstest.MapFile{Data: []byte(`{"hero":{"title":"Light Side"}}`)},
		"ru/default.json": &fstest.MapFile{Data: []byte(`{"hero":{"title":"Светлая сторона"}}`)},
		"de/default.json": &fstest.MapFile{Data: []byte(`{"hero":{"title":"Helle Seite"}}`)},
		"en/privacy.json": &fstest.MapFile{Data: []byte(`{"title":"Privacy Policy"}`)},
	}
	loader, err := i18n.NewLoader(i18n.NewFSSource(fsys),
		i18n.WithDefaultLocale("en"),
		i18n.WithSupportedLocales("en", "ru", "de"),
	)
	require.NoError(t, err)
	return loader
}

func titleHandler(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt := middlewares.GetRuntime(r.Context())
		if rt == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		*got = rt.T("hero.title")
	})
}

func TestLocale(t *testing.T) {
	t.Parallel()

	loader := newLocaleLoader(t)

	t.Run("default locale", func(t *testing.T) {
		t.Parallel()

		var got string
		serve(middlewares.Locale(loader)(titleHandler(&got)), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "Light Side", got)
	})

	t.Run("accept-language", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de-AT,de;q=0.9,en;q=0.5")
		serve(middlewares.Locale(loader)(titleHandler(&got)), req)
		assert.Equal(t, "Helle Seite", got)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de")
		req.AddCookie(&http.Cookie{Name: middlewares.DefaultLocaleCookie, Value: "ru"})
		serve(middlewares.Locale(loader)(titleHandler(&got)), req)
		assert.Equal(t, "Светлая сторона", got)
	})

	t.Run("unsupported cookie is ignored", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middlewares.DefaultLocaleCookie, Value: "xx"})
		serve(middlewares.Locale(loader)(titleHandler(&got)), req)
		assert.Equal(t, "Light Side", got)
	})

	t.Run("init does not write cookie", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "ru")
		rec := serve(middlewares.Locale(loader)(titleHandler(&got)), req)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("set locale persists cookie", func(t *testing.T) {
		t.Parallel()

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := middlewares.GetRuntime(r.Context()).SetLocale(r.Context(), "de")
			if err != nil {
				w.WriteHeader(http.StatusBadGateway)
			}
		})

		rec := serve(middlewares.Locale(loader)(h), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middlewares.DefaultLocaleCookie, cookies[0].Name)
		assert.Equal(t, "de", cookies[0].Value)
	})

	t.Run("namespace and signed cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret("this-is-a-32-byte-or-longer-key!"))

		var ns, title string
		h := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			rt := middlewares.GetRuntime(r.Context())
			ns, title = rt.Namespace(), rt.T("title")
		})

		mw := middlewares.Locale(loader,
			middlewares.WithLocaleNamespace("privacy"),
			middlewares.WithLocaleCookie(m, "lang", 60),
		)
		serve(mw(h), httptest.NewRequest(http.MethodGet, "/privacy", nil))

		assert.Equal(t, "privacy", ns)
		assert.Equal(t, "Privacy Policy", title)
	})
}

func TestCookiePreference(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	p := middlewares.NewCookiePreference(m, "locale", 60, rec, req)

	_, ok := p.Get()
	assert.False(t, ok)

	require.ErrorIs(t, p.Set(""), i18n.ErrEmptyLocale)
	require.NoError(t, p.Set("fr"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	locale, ok := middlewares.NewCookiePreference(m, "locale", 60, httptest.NewRecorder(), next).Get()
	assert.True(t, ok)
	assert.Equal(t, "fr", locale)
}

func TestCookiePreference_Closed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	p := middlewares.NewCookiePreference(cookie.New(), "locale", 60, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	p.Close()

	require.ErrorIs(t, p.Set("fr"), middlewares.ErrResponseDone)
	assert.Empty(t, rec.Result().Cookies())
}

func TestGetRuntime_Missing(t *testing.T) {
	t.Parallel()

	assert.Nil(t, middlewares.GetRuntime(context.Background()))
}
