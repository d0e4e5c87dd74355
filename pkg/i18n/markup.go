package i18n

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans translated markup before it is inserted unescaped.
// *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(s string) string
}

var markupPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	p.AllowAttrs("class").Globally()
	p.AllowElements("b", "strong", "i", "em", "u", "br", "span", "p", "small", "sup", "sub", "ul", "ol", "li")
	return p
})

// MarkupPolicy returns the policy for translation strings: inline
// formatting, lists and links. Scripts, styles and event handlers are
// stripped.
func MarkupPolicy() *bluemonday.Policy {
	return markupPolicy()
}
