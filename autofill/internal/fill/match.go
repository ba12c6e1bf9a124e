package fill

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

var parenAliasRe = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)

// declineAliases widen the "prefer not to say" family of defaults to the
// wordings self-identification selects actually use.
var declineAliases = []string{"decline", "not wish", "prefer not", "not to answer", "don't wish"}

// Aliases expands a target value into match candidates, most specific first:
// "California (CA)" gives "california (ca)", "california", "ca".
func Aliases(value string) []string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return nil
	}
	out := []string{v}
	if m := parenAliasRe.FindStringSubmatch(v); m != nil {
		for _, s := range m[1:] {
			if s = strings.TrimSpace(s); s != "" && s != v {
				out = append(out, s)
			}
		}
	}
	if strings.Contains(v, "prefer not") || strings.Contains(v, "do not wish") {
		out = append(out, declineAliases...)
	}
	return out
}

// MatchOption returns the index of the first option whose text or value
// contains a candidate, trying candidates in order, or -1. Candidates of
// three characters or fewer must match a whole word.
func MatchOption(opts []dom.Option, value string) int {
	for _, cand := range Aliases(value) {
		for _, o := range opts {
			if contains(strings.ToLower(o.Text), cand) || contains(strings.ToLower(o.Value), cand) {
				return o.Index
			}
		}
	}
	return -1
}

// MatchRadio picks the group member to check, or nil. Heuristics run in
// order across all members: exact value, member text contains target,
// value contains target, target contains value, yes/no aliasing.
func MatchRadio(members []dom.Element, value string) dom.Element {
	target := strings.ToLower(strings.TrimSpace(value))
	if target == "" {
		return nil
	}

	type cand struct {
		el    dom.Element
		value string
		text  string
	}
	cs := make([]cand, len(members))
	for i, m := range members {
		cs[i] = cand{
			el:    m,
			value: strings.ToLower(strings.TrimSpace(m.Value())),
			text:  strings.ToLower(memberText(m)),
		}
	}

	heuristics := []func(c cand) bool{
		func(c cand) bool { return c.value == target },
		func(c cand) bool { return contains(c.text, target) },
		func(c cand) bool { return contains(c.value, target) },
		func(c cand) bool { return c.value != "" && contains(target, c.value) },
		func(c cand) bool {
			want := yesNo(target)
			return want != "" && (yesNo(c.value) == want || yesNo(c.text) == want)
		},
	}
	for _, h := range heuristics {
		for _, c := range cs {
			if h(c) {
				return c.el
			}
		}
	}
	return nil
}

// memberText is the visible label of a radio: its labels, else its
// parent's own text, else aria-label.
func memberText(el dom.Element) string {
	if t := dom.LabelText(el); t != "" {
		return t
	}
	if p := el.Parent(); p != nil {
		if t := dom.CleanText(p.OwnText()); t != "" {
			return t
		}
	}
	return dom.CleanText(el.Attr("aria-label"))
}

func yesNo(s string) string {
	switch strings.TrimSpace(s) {
	case "yes", "true", "1", "y":
		return "yes"
	case "no", "false", "0", "n":
		return "no"
	}
	return ""
}

// contains is substring containment, except that needles of three
// characters or fewer must sit on word boundaries.
func contains(haystack, needle string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	if len(needle) > 3 {
		return strings.Contains(haystack, needle)
	}
	for i := 0; i+len(needle) <= len(haystack); {
		j := strings.Index(haystack[i:], needle)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(needle)
		if edge(haystack, start-1) && edge(haystack, end) {
			return true
		}
		i = start + 1
	}
	return false
}

func edge(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
