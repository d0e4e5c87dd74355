package sheet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/lightside/site/pkg/sheet"
)

const sample = "key,en,ru,,\n" +
	"hero.title,Light Side,Светлая сторона,,\n" +
	"# comment,,,\n" +
	",orphan,value\n" +
	"hero.cta,Play now,\n" +
	"footer.copyright,\"© {{year}} Light Side, Inc.\",© {{year}} Light Side\n"

func rows(t *testing.T, s string) [][]string {
	t.Helper()
	r, err := sheet.ReadRows(strings.NewReader(s))
	require.NoError(t, err)
	return r
}

func TestExportURL(t *testing.T) {
	t.Parallel()

	gid := 7
	tests := []struct {
		name string
		link string
		gid  *int
		want string
	}{
		{
			name: "edit link defaults to first tab",
			link: "https://docs.google.com/spreadsheets/d/abc123/edit",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0",
		},
		{
			name: "gid from fragment",
			link: "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42",
		},
		{
			name: "gid from query",
			link: "https://docs.google.com/spreadsheets/d/abc123/edit?gid=5",
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=5",
		},
		{
			name: "explicit gid wins",
			link: "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42",
			gid:  &gid,
			want: "https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7",
		},
		{
			name: "csv link passes through",
			link: "https://docs.google.com/spreadsheets/d/e/PUB/pub?output=csv",
			want: "https://docs.google.com/spreadsheets/d/e/PUB/pub?output=csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sheet.ExportURL(tt.link, tt.gid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects foreign links", func(t *testing.T) {
		t.Parallel()

		_, err := sheet.ExportURL("https://example.com/sheet", nil)
		require.ErrorIs(t, err, sheet.ErrNoSpreadsheetID)
	})
}

func TestReadRows(t *testing.T) {
	t.Parallel()

	got := rows(t, sample)
	assert.Equal(t, []string{"key", "en", "ru"}, got[0])
	assert.Equal(t, []string{"# comment"}, got[2])
	assert.Equal(t, []string{"hero.cta", "Play now"}, got[4])
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("nested documents per language", func(t *testing.T) {
		t.Parallel()

		res, err := sheet.Build(rows(t, sample))
		require.NoError(t, err)
		assert.Equal(t, []string{"en", "ru"}, res.Languages)

		assert.Equal(t, map[string]any{
			"hero": map[string]any{
				"title": "Light Side",
				"cta":   "Play now",
			},
			"footer": map[string]any{
				"copyright": "© {{year}} Light Side, Inc.",
			},
		}, res.Docs["en"])

		hero := res.Docs["ru"]["hero"].(map[string]any)
		assert.Equal(t, "", hero["cta"])
	})

	t.Run("flat without missing", func(t *testing.T) {
		t.Parallel()

		res, err := sheet.Build(rows(t, sample), sheet.WithFormat(sheet.Flat), sheet.WithoutMissing())
		require.NoError(t, err)
		assert.Equal(t, "Light Side", res.Docs["en"]["hero.title"])
		assert.NotContains(t, res.Docs["ru"], "hero.cta")
	})

	t.Run("allow list restricts languages", func(t *testing.T) {
		t.Parallel()

		res, err := sheet.Build(rows(t, sample), sheet.WithAllow("ru"))
		require.NoError(t, err)
		assert.Equal(t, []string{"ru"}, res.Languages)
	})

	t.Run("comment prefix can be disabled", func(t *testing.T) {
		t.Parallel()

		res, err := sheet.Build(rows(t, sample), sheet.WithFormat(sheet.Flat), sheet.WithCommentPrefix(""))
		require.NoError(t, err)
		assert.Contains(t, res.Docs["en"], "# comment")
	})

	t.Run("key column matched case-insensitively", func(t *testing.T) {
		t.Parallel()

		res, err := sheet.Build(rows(t, "Key,en\na,b\n"), sheet.WithFormat(sheet.Flat))
		require.NoError(t, err)
		assert.Equal(t, "b", res.Docs["en"]["a"])
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		_, err := sheet.Build(nil)
		require.ErrorIs(t, err, sheet.ErrEmptyCSV)

		_, err = sheet.Build(rows(t, "id,en\n"))
		require.ErrorIs(t, err, sheet.ErrNoKeyColumn)

		_, err = sheet.Build(rows(t, "key,en\n"), sheet.WithAllow("de"))
		require.ErrorIs(t, err, sheet.ErrNoLanguages)
	})
}

func TestSetDeep(t *testing.T) {
	t.Parallel()

	t.Run("value replaced by object", func(t *testing.T) {
		t.Parallel()

		obj := map[string]any{}
		require.NoError(t, sheet.SetDeep(obj, "a", "x", ".", false))
		require.NoError(t, sheet.SetDeep(obj, "a.b", "y", ".", false))
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "y"}}, obj)
	})

	t.Run("empty segments are skipped", func(t *testing.T) {
		t.Parallel()

		obj := map[string]any{}
		require.NoError(t, sheet.SetDeep(obj, "a..b.", "y", ".", false))
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "y"}}, obj)
	})

	t.Run("strict reports collisions", func(t *testing.T) {
		t.Parallel()

		obj := map[string]any{}
		require.NoError(t, sheet.SetDeep(obj, "a", "x", ".", true))
		require.ErrorIs(t, sheet.SetDeep(obj, "a.b", "y", ".", true), sheet.ErrKeyCollision)

		obj = map[string]any{}
		require.NoError(t, sheet.SetDeep(obj, "a.b", "y", ".", true))
		require.ErrorIs(t, sheet.SetDeep(obj, "a", "x", ".", true), sheet.ErrKeyCollision)
	})
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("utf-8", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.UserAgent())
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("\xef\xbb\xbf" + sample))
		}))
		t.Cleanup(srv.Close)

		got, err := sheet.Fetch(context.Background(), srv.URL, sheet.WithHTTPClient(srv.Client()))
		require.NoError(t, err)
		assert.Equal(t, "key", got[0][0])
		assert.Equal(t, "Светлая сторона", got[1][2])
	})

	t.Run("utf-16 fallback", func(t *testing.T) {
		t.Parallel()

		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("key,ru\na,Привет\n"))
		require.NoError(t, err)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(encoded)
		}))
		t.Cleanup(srv.Close)

		got, err := sheet.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "Привет"}, got[1])
	})

	t.Run("non-200 fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "login required", http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		_, err := sheet.Fetch(context.Background(), srv.URL)
		require.ErrorIs(t, err, sheet.ErrFetchFailed)
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	res, err := sheet.Build(rows(t, sample))
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := sheet.Write(dir, "default", res)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "en", "default.json"),
		filepath.Join(dir, "ru", "default.json"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), "\n  \"footer\": {\n    \"copyright\": \"© {{year}} Light Side, Inc.\"")
}

func TestEncodeKeepsMarkup(t *testing.T) {
	t.Parallel()

	data, err := sheet.Encode(map[string]any{"p": "<b>bold</b> & more"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"p\": \"<b>bold</b> & more\"\n}\n", string(data))
}
