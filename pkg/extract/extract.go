// Package extract pulls metrics out of decoded JSON statistics documents.
//
// Documents are the generic trees produced by encoding/json: map[string]any,
// []any, float64, string, bool and nil. Lookups report absence with a false
// second return value instead of failing.
package extract

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danpilch/cbprobe/pkg/check"
)

// Path is a sequence of object keys or array indexes.
type Path []string

// ParsePath splits a dotted path. The empty string is the document root.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// Child returns a new path with seg appended. seg is used verbatim, so it may contain dots.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup returns the value at path.
func Lookup(doc any, path Path) (any, bool) {
	cur := doc
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Number returns the numeric value at path.
func Number(doc any, path Path) (float64, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// String returns the string value at path.
func String(doc any, path Path) (string, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the boolean value at path.
func Bool(doc any, path Path) (bool, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Label joins prefix and field, capitalising the field when a prefix is present.
func Label(prefix, field string) string {
	if prefix == "" || field == "" {
		return prefix + field
	}
	r, size := utf8.DecodeRuneInString(field)
	return prefix + string(unicode.ToUpper(r)) + field[size:]
}

// Fields converts the numeric children of the object at path into perf data
// samples with a minimum of zero, ordered by key. Non-numeric children are skipped.
func Fields(doc any, path Path, prefix string) ([]check.PerfData, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	samples := make([]check.PerfData, 0, len(keys))
	for _, k := range keys {
		value, ok := toFloat(obj[k])
		if !ok {
			continue
		}
		samples = append(samples, check.PerfData{
			Label: Label(prefix, k),
			Value: value,
		})
	}
	return samples, true
}

// FindObject returns the first object in the array at path whose string field
// key equals value.
func FindObject(doc any, path Path, key, value string) (map[string]any, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := obj[key].(string); ok && s == value {
			return obj, true
		}
	}
	return nil, false
}

// BoundMax sets max on the sample with the given label. Samples are returned
// unchanged when the label is absent.
func BoundMax(samples []check.PerfData, label string, max float64) []check.PerfData {
	out := make([]check.PerfData, len(samples))
	for i, s := range samples {
		if s.Label == label {
			s = s.WithMax(max)
		}
		out[i] = s
	}
	return out
}

// Value returns the value of the sample with the given label.
func Value(samples []check.PerfData, label string) (float64, bool) {
	for _, s := range samples {
		if s.Label == label {
			return s.Value, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
