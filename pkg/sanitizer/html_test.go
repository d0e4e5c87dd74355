package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightside/site/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips script injection",
			input:    `<p>Hello</p><script>alert('xss')</script>`,
			expected: "Hello",
		},
		{
			name:     "strips all HTML tags",
			input:    `<p>Hello <strong>world</strong></p>`,
			expected: "Hello world",
		},
		{
			name:     "strips javascript URLs",
			input:    `<a href="javascript:alert('xss')">click</a>`,
			expected: "click",
		},
		{
			name:     "handles plain text",
			input:    "normal text without HTML",
			expected: "normal text without HTML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	t.Run("keeps formatting", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "<p>Hello <strong>world</strong></p>", sanitizer.SanitizeHTML("<p>Hello <strong>world</strong></p>"))
	})

	t.Run("adds nofollow to links", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeHTML(`<a href="https://lightside.games">site</a>`)
		assert.Contains(t, out, `rel="nofollow"`)
		assert.Contains(t, out, `href="https://lightside.games"`)
	})

	t.Run("custom policy", func(t *testing.T) {
		t.Parallel()
		p := bluemonday.NewPolicy()
		p.AllowElements("b")
		assert.Equal(t, "<b>x</b>y", sanitizer.SanitizeHTMLCustom("<b>x</b><i>y</i>", p))
		assert.Equal(t, "<i>y</i>", sanitizer.SanitizeHTMLCustom("<i>y</i>", nil))
	})
}

func TestHTMLSanitizationXSSVectors(t *testing.T) {
	t.Parallel()

	vectors := []struct {
		name  string
		input string
	}{
		{name: "script tag", input: `<script>alert('XSS')</script>`},
		{name: "img onerror", input: `<img src="x" onerror="alert('XSS')">`},
		{name: "svg onload", input: `<svg onload="alert('XSS')">`},
		{name: "javascript protocol", input: `<a href="javascript:alert('XSS')">click</a>`},
		{name: "javascript protocol case variation", input: `<a href="JaVaScRiPt:alert('XSS')">click</a>`},
		{name: "vbscript protocol", input: `<a href="vbscript:msgbox('XSS')">click</a>`},
		{name: "style expression", input: `<div style="width:expression(alert('XSS'))">`},
		{name: "iframe", input: `<iframe src="javascript:alert('XSS')"></iframe>`},
		{name: "form action", input: `<form action="javascript:alert('XSS')"><input type="submit"></form>`},
	}

	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			for _, out := range []string{sanitizer.StripHTML(v.input), sanitizer.SanitizeHTML(v.input), sanitizer.Text(v.input)} {
				lower := strings.ToLower(out)
				require.NotContains(t, lower, "<script")
				require.NotContains(t, lower, "javascript:")
				require.NotContains(t, lower, "vbscript:")
				require.NotContains(t, lower, "onerror")
				require.NotContains(t, lower, "onload")
				require.NotContains(t, lower, "expression(")
			}
		})
	}
}
