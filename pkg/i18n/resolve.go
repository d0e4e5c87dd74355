package i18n

import (
	"strconv"
	"strings"
)

// Resolve walks t along the dot-separated path and returns the leaf string.
// ok is false (the "missing" outcome) when the path is empty, has an empty
// segment, names an absent key, or ends on a branch rather than a leaf.
// Numeric segments address array-shaped branches by index; a non-canonical
// index such as "01" also matches "1".
//
// Resolve never mutates t and never panics, including on a nil tree.
func Resolve(t *Tree, path string) (string, bool) {
	if t == nil || path == "" {
		return "", false
	}

	node := t
	for {
		seg, rest, more := strings.Cut(path, ".")
		if seg == "" {
			return "", false
		}
		if !more {
			return lookupLeaf(node, seg)
		}
		next, ok := lookupBranch(node, seg)
		if !ok {
			return "", false
		}
		node, path = next, rest
	}
}

func lookupLeaf(t *Tree, seg string) (string, bool) {
	if s, ok := t.Leaf(seg); ok {
		return s, true
	}
	if canon, ok := canonicalIndex(seg); ok {
		return t.Leaf(canon)
	}
	return "", false
}

func lookupBranch(t *Tree, seg string) (*Tree, bool) {
	if sub, ok := t.Branch(seg); ok {
		return sub, true
	}
	if canon, ok := canonicalIndex(seg); ok {
		return t.Branch(canon)
	}
	return nil, false
}

// canonicalIndex returns the decimal form of a purely numeric segment when
// it differs from the segment itself.
func canonicalIndex(seg string) (string, bool) {
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return "", false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return "", false
	}
	canon := strconv.Itoa(n)
	return canon, canon != seg
}
