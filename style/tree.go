package style

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Tree is the raw, untyped form of a style configuration as read from YAML.
// Nested sections are map[string]any values.
type Tree map[string]any

// Get returns the value at a dotted path such as "titles.level1.size".
// def is returned when a segment is missing, an intermediate value is not a
// mapping, or the value found is nil.
func (t Tree) Get(path string, def any) any {
	var cur any = map[string]any(t)
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return def
		}
		cur, ok = m[key]
		if !ok {
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// Lookup is the typed form of Tree.Get. Scalars are converted weakly, so an
// integer 12 in YAML can be read as float64, and def is returned when the
// value cannot be converted to T.
func Lookup[T any](t Tree, path string, def T) T {
	v := t.Get(path, nil)
	if v == nil {
		return def
	}
	if out, ok := v.(T); ok {
		return out
	}
	var out T
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return def
	}
	return out
}

// Merge deep-merges override onto base and returns a new tree. When both
// sides hold a mapping at the same key the mappings are merged recursively;
// otherwise the override value replaces the base value outright, lists
// included. Neither input is modified. A nil override returns a copy of base.
func Merge(base, override Tree) Tree {
	out := cloneMap(base)
	for k, ov := range override {
		bm, baseIsMap := asMap(out[k])
		om, overIsMap := asMap(ov)
		if baseIsMap && overIsMap {
			out[k] = map[string]any(Merge(bm, om))
			continue
		}
		out[k] = cloneValue(ov)
	}
	return out
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	return cloneMap(t)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Tree:
		return m, true
	}
	return nil, false
}

func cloneMap(m map[string]any) Tree {
	out := make(Tree, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return map[string]any(cloneMap(x))
	case Tree:
		return map[string]any(cloneMap(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

