package sanitizer

import (
	"html"
	"strings"
	"unicode"
)

// Text turns untrusted input into a single line of plain text: tags are
// removed, entities decoded, control characters dropped and whitespace
// runs collapsed to one space.
func Text(s string) string {
	s = html.UnescapeString(StripHTML(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
}

// Multiline is Text for free-form messages: line breaks survive, each line
// is trimmed and runs of blank lines shrink to one.
func Multiline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = Text(line)
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Email normalizes an address for comparison and delivery: trimmed and
// lower-cased.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
