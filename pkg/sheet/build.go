package sheet

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects the shape of the generated documents.
type Format string

const (
	// Nested splits keys on the separator into nested objects.
	Nested Format = "nested"
	// Flat keeps keys as written.
	Flat Format = "flat"
)

// Documents maps a language header to its translation document.
type Documents map[string]map[string]any

// Result is the output of Build.
type Result struct {
	Docs Documents
	// Languages lists the document languages in column order.
	Languages []string
}

// Option configures Build.
type Option func(*options)

type options struct {
	keyColumn      string
	format         Format
	sep            string
	allow          []string
	commentPrefix  string
	includeMissing bool
	strict         bool
}

// WithKeyColumn sets the header of the key column. Default: "key".
func WithKeyColumn(name string) Option {
	return func(o *options) {
		if name != "" {
			o.keyColumn = name
		}
	}
}

// WithFormat selects nested or flat output. Default: Nested.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f == Nested || f == Flat {
			o.format = f
		}
	}
}

// WithSeparator sets the key separator for nested output. Default: ".".
func WithSeparator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.sep = sep
		}
	}
}

// WithAllow restricts output to the listed language headers.
func WithAllow(langs ...string) Option {
	return func(o *options) {
		o.allow = langs
	}
}

// WithCommentPrefix skips rows whose key starts with prefix. An empty
// prefix disables comments. Default: "#".
func WithCommentPrefix(prefix string) Option {
	return func(o *options) {
		o.commentPrefix = prefix
	}
}

// WithoutMissing drops empty cells instead of writing empty strings.
func WithoutMissing() Option {
	return func(o *options) {
		o.includeMissing = false
	}
}

// WithStrict fails on keys that collide with an existing value or object
// instead of overwriting.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

type column struct {
	lang  string
	index int
}

// Build turns CSV rows into one document per language column.
func Build(rows [][]string, opts ...Option) (*Result, error) {
	o := options{
		keyColumn:      "key",
		format:         Nested,
		sep:            ".",
		commentPrefix:  "#",
		includeMissing: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyCSV
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	keyIdx := keyColumn(header, o.keyColumn)
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: %q in %v", ErrNoKeyColumn, o.keyColumn, header)
	}

	var cols []column
	for i, h := range header {
		if i == keyIdx || h == "" {
			continue
		}
		if len(o.allow) > 0 && !slices.Contains(o.allow, h) {
			continue
		}
		cols = append(cols, column{lang: h, index: i})
	}
	if len(cols) == 0 {
		return nil, ErrNoLanguages
	}

	res := &Result{Docs: make(Documents, len(cols))}
	for _, c := range cols {
		res.Docs[c.lang] = map[string]any{}
		res.Languages = append(res.Languages, c.lang)
	}

	for _, row := range rows[1:] {
		if keyIdx >= len(row) {
			continue
		}
		key := strings.TrimSpace(row[keyIdx])
		if key == "" {
			continue
		}
		if o.commentPrefix != "" && strings.HasPrefix(key, o.commentPrefix) {
			continue
		}

		for _, c := range cols {
			var val string
			if c.index < len(row) {
				val = strings.TrimSpace(row[c.index])
			}
			if val == "" && !o.includeMissing {
				continue
			}

			if o.format == Flat {
				res.Docs[c.lang][key] = val
				continue
			}
			if err := SetDeep(res.Docs[c.lang], key, val, o.sep, o.strict); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func keyColumn(header []string, name string) int {
	if i := slices.Index(header, name); i >= 0 {
		return i
	}
	return slices.IndexFunc(header, func(h string) bool {
		return strings.EqualFold(h, name)
	})
}

// SetDeep stores value under the separated key path in obj, creating
// intermediate objects. Outside strict mode a value standing where an object
// is needed is replaced by one, and a leaf overwrites whatever the path held.
func SetDeep(obj map[string]any, key, value, sep string, strict bool) error {
	var parts []string
	for p := range strings.SplitSeq(key, sep) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}

	cur := obj
	for _, p := range parts[:len(parts)-1] {
		next, exists := cur[p]
		child, isObj := next.(map[string]any)
		switch {
		case !exists:
			child = map[string]any{}
			cur[p] = child
		case !isObj:
			if strict {
				return fmt.Errorf("%w: %q holds a value at %q", ErrKeyCollision, key, p)
			}
			child = map[string]any{}
			cur[p] = child
		}
		cur = child
	}

	last := parts[len(parts)-1]
	if _, isObj := cur[last].(map[string]any); isObj && strict {
		return fmt.Errorf("%w: %q already holds an object", ErrKeyCollision, key)
	}
	cur[last] = value
	return nil
}
