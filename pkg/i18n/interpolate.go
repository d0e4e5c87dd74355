package i18n

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{name}} (inner spaces allowed) and {name}.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}|\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// Interpolate substitutes {name} and {{name}} placeholders in template with
// values from vars. Placeholders without a binding are left verbatim so the
// gap stays visible in rendered output. The result is not escaped: callers
// inserting it as markup must only do so for trusted templates.
func Interpolate(template string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(template, "{") {
		return template
	}

	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, m := range matches {
		name := submatch(template, m)
		v, ok := vars[name]
		if !ok {
			continue
		}
		b.WriteString(template[last:m[0]])
		b.WriteString(v.String())
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String()
}

// Placeholders returns the distinct placeholder names in template in order
// of first appearance.
func Placeholders(template string) []string {
	if !strings.Contains(template, "{") {
		return nil
	}
	var names []string
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(template, -1) {
		name := submatch(template, m)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func submatch(s string, m []int) string {
	if m[2] >= 0 {
		return s[m[2]:m[3]]
	}
	return s[m[4]:m[5]]
}
