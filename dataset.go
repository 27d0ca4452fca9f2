package weblocale

import "strings"

// Dataset is the nested translation tree for one language. Branch values are
// maps, leaf values are expected to be strings but no type is enforced; the
// renderer skips non-string leaves. A dataset is always replaced wholesale,
// never merged.
type Dataset map[string]any

// Lookup traverses the tree along a dot-delimited key path. It reports false
// as soon as a segment is missing or an intermediate value is not a branch.
func (d Dataset) Lookup(path string) (any, bool) {
	if d == nil || path == "" {
		return nil, false
	}

	var current any = map[string]any(d)
	for _, segment := range strings.Split(path, ".") {
		branch, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = branch[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// String looks up a path and reports whether it resolved to a string leaf.
func (d Dataset) String(path string) (string, bool) {
	value, ok := d.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// looksLikeMarkup is the content-type heuristic inherited from the rendered
// pages: any value containing '<' is inserted as markup, everything else as
// plain text. Kept as a single predicate so it can be replaced with an
// explicit per-key flag.
func looksLikeMarkup(s string) bool {
	return strings.ContainsRune(s, '<')
}
