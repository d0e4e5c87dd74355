package i18n

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Tree is an immutable tree of translation strings for one
// (namespace, locale) pair. Arrays in the source become branches keyed by
// their decimal index ("0", "1", ...).
//
// A nil *Tree is a valid empty tree.
type Tree struct {
	leaves   map[string]string
	branches map[string]*Tree
}

// NewTree normalizes decoded source data (JSON or YAML) into a Tree.
// Strings become leaves; numbers and booleans become their string form;
// objects and arrays become branches. Any other value (null included) is
// reported as ErrMalformed with the offending path.
func NewTree(data map[string]any) (*Tree, error) {
	return buildTree(data, "")
}

// MustTree is NewTree that panics on error. Intended for tests and
// package-level fixtures.
func MustTree(data map[string]any) *Tree {
	t, err := NewTree(data)
	if err != nil {
		panic(err)
	}
	return t
}

func buildTree(data map[string]any, prefix string) (*Tree, error) {
	t := &Tree{}
	for key, value := range data {
		if err := t.add(key, value, prefix); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) add(key string, value any, prefix string) error {
	path := key
	if prefix != "" {
		path = prefix + "." + key
	}

	switch v := value.(type) {
	case map[string]any:
		sub, err := buildTree(v, path)
		if err != nil {
			return err
		}
		t.setBranch(key, sub)
	case map[string]string:
		sub := &Tree{}
		for k, s := range v {
			sub.setLeaf(k, s)
		}
		t.setBranch(key, sub)
	case []any:
		sub := &Tree{}
		for i, item := range v {
			if err := sub.add(strconv.Itoa(i), item, path); err != nil {
				return err
			}
		}
		t.setBranch(key, sub)
	case []string:
		sub := &Tree{}
		for i, s := range v {
			sub.setLeaf(strconv.Itoa(i), s)
		}
		t.setBranch(key, sub)
	default:
		s, ok := scalarString(v)
		if !ok {
			return fmt.Errorf("%w: %q holds %T", ErrMalformed, path, value)
		}
		t.setLeaf(key, s)
	}
	return nil
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case time.Time:
		return v.Format(time.DateOnly), true
	default:
		return "", false
	}
}

func (t *Tree) setLeaf(key, value string) {
	if t.leaves == nil {
		t.leaves = make(map[string]string)
	}
	t.leaves[key] = value
}

func (t *Tree) setBranch(key string, sub *Tree) {
	if t.branches == nil {
		t.branches = make(map[string]*Tree)
	}
	t.branches[key] = sub
}

// Leaf returns the string stored directly under key.
func (t *Tree) Leaf(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := t.leaves[key]
	return s, ok
}

// Branch returns the subtree stored directly under key.
func (t *Tree) Branch(key string) (*Tree, bool) {
	if t == nil {
		return nil, false
	}
	sub, ok := t.branches[key]
	return sub, ok
}

// Len returns the number of leaves in the whole tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	n := len(t.leaves)
	for _, sub := range t.branches {
		n += sub.Len()
	}
	return n
}

// Paths returns the dotted path of every leaf, sorted.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, t.Len())
	t.walk("", func(path, _ string) {
		paths = append(paths, path)
	})
	slices.Sort(paths)
	return paths
}

func (t *Tree) walk(prefix string, fn func(path, value string)) {
	if t == nil {
		return
	}
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	for k, v := range t.leaves {
		fn(join(k), v)
	}
	for k, sub := range t.branches {
		sub.walk(join(k), fn)
	}
}

// Map converts the tree back into nested maps of strings.
func (t *Tree) Map() map[string]any {
	out := make(map[string]any)
	if t == nil {
		return out
	}
	for k, v := range t.leaves {
		out[k] = v
	}
	for k, sub := range t.branches {
		out[k] = sub.Map()
	}
	return out
}

// MarshalJSON encodes the tree as nested JSON objects. Array-shaped
// branches are encoded as objects keyed by index.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// UnmarshalJSON decodes nested JSON objects into the tree.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	parsed, err := NewTree(raw)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// Equal reports whether both trees hold the same paths and strings.
func (t *Tree) Equal(other *Tree) bool {
	if t.Len() != other.Len() {
		return false
	}
	if !maps.Equal(t.leavesOrNil(), other.leavesOrNil()) {
		return false
	}
	for k, sub := range t.branchesOrNil() {
		o, ok := other.Branch(k)
		if !ok || !sub.Equal(o) {
			return false
		}
	}
	return len(t.branchesOrNil()) == len(other.branchesOrNil())
}

func (t *Tree) leavesOrNil() map[string]string {
	if t == nil {
		return nil
	}
	return t.leaves
}

func (t *Tree) branchesOrNil() map[string]*Tree {
	if t == nil {
		return nil
	}
	return t.branches
}
