package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)
	safePolicy   = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		return p
	})
)

// StripHTML removes every tag and returns the text content, HTML-escaped.
func StripHTML(s string) string {
	return strictPolicy().Sanitize(s)
}

// SanitizeHTML keeps basic formatting (paragraphs, emphasis, lists, code,
// links) and drops scripts, event handlers and javascript: URLs.
func SanitizeHTML(s string) string {
	return safePolicy().Sanitize(s)
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
