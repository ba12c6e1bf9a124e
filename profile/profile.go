// Package profile holds the applicant profile the engine fills forms from.
//
// A Profile is a tree of categories (personalInfo, experience, skills,
// education, documents, applicationQuestions, commonQuestions,
// preferences) to nested key/value data. The engine only reads it; absent
// keys resolve to literal defaults through ValueFor.
package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Profile is the nested applicant data.
type Profile map[string]any

// Categories are the top-level sections the accessor reads.
var Categories = []string{
	"personalInfo", "experience", "skills", "education", "documents",
	"applicationQuestions", "commonQuestions", "preferences",
}

// Parse decodes a JSON profile.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parse: %w", err)
	}
	if p == nil {
		p = Profile{}
	}
	return p, nil
}

// Lookup follows a dotted path through nested maps. Numeric segments index
// into lists.
func (p Profile) Lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Profile:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// String returns the value at path rendered as text, or "".
func (p Profile) String(path string) string {
	v, ok := p.Lookup(path)
	if !ok {
		return ""
	}
	return render(v)
}

// Set writes v at a dotted path, creating intermediate maps.
func (p Profile) Set(path string, v any) {
	segs := strings.Split(path, ".")
	cur := map[string]any(p)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := asMap(cur[seg])
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	if p == nil {
		return Profile{}
	}
	return Profile(cloneMap(p))
}

// Keys lists every leaf path in sorted order. Used by the profile dump.
func (p Profile) Keys() []string {
	var out []string
	var visit func(prefix string, v any)
	visit = func(prefix string, v any) {
		switch node := v.(type) {
		case map[string]any:
			for k, c := range node {
				visit(join(prefix, k), c)
			}
		case []any:
			for i, c := range node {
				visit(join(prefix, strconv.Itoa(i)), c)
			}
		default:
			out = append(out, prefix)
		}
	}
	visit("", map[string]any(p))
	sort.Strings(out)
	return out
}

// Merge overlays src onto a copy of dst. Maps merge recursively; any other
// non-empty src value replaces the dst value.
func Merge(dst, src Profile) Profile {
	out := dst.Clone()
	mergeInto(out, src)
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := asMap(sv); ok {
			dm, ok := asMap(dst[k])
			if !ok {
				dm = map[string]any{}
			}
			mergeInto(dm, sm)
			dst[k] = dm
			continue
		}
		if empty(sv) {
			continue
		}
		dst[k] = cloneValue(sv)
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Profile:
		return map[string]any(m), true
	}
	return nil, false
}

func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	}
	return false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case Profile:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = cloneValue(c)
		}
		return out
	}
	return v
}

// render turns a leaf into form text: lists join with ", ", booleans
// become Yes/No, whole numbers drop their fraction.
func render(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, 0, len(x))
		for _, c := range x {
			if s := render(c); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(x, ", ")
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func join(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}
