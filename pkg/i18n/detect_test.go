package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightside/site/pkg/i18n"
)

func TestDetectFromAcceptLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		supported []string
		want      string
		wantOK    bool
	}{
		{
			name:      "empty header",
			header:    "",
			supported: []string{"en", "ru"},
		},
		{
			name:      "exact match",
			header:    "ru",
			supported: []string{"en", "ru", "de"},
			want:      "ru",
			wantOK:    true,
		},
		{
			name:      "quality values order preferences",
			header:    "de;q=0.5,ru;q=0.9,en;q=0.8",
			supported: []string{"en", "ru", "de"},
			want:      "ru",
			wantOK:    true,
		},
		{
			name:      "region matches base language",
			header:    "en-US",
			supported: []string{"en", "ru"},
			want:      "en",
			wantOK:    true,
		},
		{
			name:      "base language matches regional variant",
			header:    "en",
			supported: []string{"en-US", "ru"},
			want:      "en-US",
			wantOK:    true,
		},
		{
			name:      "later preference matches",
			header:    "ja,en-GB;q=0.8",
			supported: []string{"ru", "en"},
			want:      "en",
			wantOK:    true,
		},
		{
			name:      "nothing matches",
			header:    "ja,ko",
			supported: []string{"en", "ru"},
		},
		{
			name:   "no supported list returns first preference",
			header: "pt-BR,pt;q=0.9",
			want:   "pt-BR",
			wantOK: true,
		},
		{
			name:      "oversized header is truncated safely",
			header:    strings.Repeat("ru,", 2000) + "en",
			supported: []string{"en", "ru"},
			want:      "ru",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := i18n.DetectFromAcceptLanguage(tt.header, tt.supported...)()
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchLocale(t *testing.T) {
	t.Parallel()

	got, ok := i18n.MatchLocale([]string{"en", "ru"}, "ru-RU")
	require.True(t, ok)
	require.Equal(t, "ru", got)

	_, ok = i18n.MatchLocale([]string{"en", "ru"}, "not a tag!")
	require.False(t, ok)
}

func TestDetectFromEnv(t *testing.T) {
	t.Run("reads LANG", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", "de_DE.UTF-8")

		got, ok := i18n.DetectFromEnv("en", "de")()
		require.True(t, ok)
		require.Equal(t, "de", got)

		got, ok = i18n.DetectFromEnv()()
		require.True(t, ok)
		require.Equal(t, "de-DE", got)
	})

	t.Run("LC_ALL takes precedence", func(t *testing.T) {
		t.Setenv("LC_ALL", "ru_RU.UTF-8")
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", "de_DE.UTF-8")

		got, ok := i18n.DetectFromEnv("en", "ru", "de")()
		require.True(t, ok)
		require.Equal(t, "ru", got)
	})

	t.Run("POSIX locale is ignored", func(t *testing.T) {
		t.Setenv("LC_ALL", "C")
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", "POSIX")

		_, ok := i18n.DetectFromEnv("en")()
		require.False(t, ok)
	})
}

func TestFirstDetected(t *testing.T) {
	t.Parallel()

	none := func() (string, bool) { return "", false }
	ru := func() (string, bool) { return "ru", true }

	got, ok := i18n.FirstDetected(nil, none, ru)()
	require.True(t, ok)
	require.Equal(t, "ru", got)

	_, ok = i18n.FirstDetected(none)()
	require.False(t, ok)
}
