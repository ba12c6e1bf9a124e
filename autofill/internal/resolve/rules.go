package resolve

import (
	"strings"

	"github.com/hazyhaar/jobfill/autofill/field"
)

// Rule is one predicate -> slot mapping. Match receives the normalised
// question text the rule should consider and the full input.
type Rule struct {
	Name     string
	Layer    Layer
	Slot     field.Slot
	Platform string // non-empty: only on this application host
	Match    func(q string, in *Input) bool
}

// allOf requires, for every group, at least one of its terms in the question.
func allOf(groups ...[]string) func(string, *Input) bool {
	return func(q string, _ *Input) bool {
		if q == "" {
			return false
		}
		for _, g := range groups {
			if !anyTerm(q, g) {
				return false
			}
		}
		return true
	}
}

// anyOf matches when the question contains any term.
func anyOf(terms ...string) func(string, *Input) bool {
	return func(q string, _ *Input) bool {
		return q != "" && anyTerm(q, terms)
	}
}

func anyTerm(q string, terms []string) bool {
	for _, t := range terms {
		if hasTerm(q, t) {
			return true
		}
	}
	return false
}

// identContains matches when any normalised identifier contains a pattern.
func identContains(patterns ...string) func(string, *Input) bool {
	norm := make([]string, len(patterns))
	for i, p := range patterns {
		norm[i] = normaliseIdent(p)
	}
	return func(_ string, in *Input) bool {
		for _, id := range in.idents {
			for _, p := range norm {
				if strings.Contains(id, p) {
					return true
				}
			}
		}
		return false
	}
}

// identWord matches when any identifier word equals a term, or, for terms
// of four letters or more, contains it.
func identWord(terms ...string) func(string, *Input) bool {
	return func(_ string, in *Input) bool {
		for _, t := range terms {
			if in.tokens[t] {
				return true
			}
			if len(t) < 4 {
				continue
			}
			for w := range in.tokens {
				if strings.Contains(w, t) {
					return true
				}
			}
		}
		return false
	}
}

// attrEquals matches an attribute value case-insensitively.
func attrEquals(attr string, values ...string) func(string, *Input) bool {
	return func(_ string, in *Input) bool {
		v := in.Attrs[attr]
		for _, want := range values {
			if strings.EqualFold(v, want) {
				return true
			}
		}
		return false
	}
}

// attrContains matches an attribute value by case-insensitive substring.
func attrContains(attr string, values ...string) func(string, *Input) bool {
	return func(_ string, in *Input) bool {
		v := strings.ToLower(in.Attrs[attr])
		if v == "" {
			return false
		}
		for _, want := range values {
			if strings.Contains(v, strings.ToLower(want)) {
				return true
			}
		}
		return false
	}
}

func rule(layer Layer, name string, slot field.Slot, m func(string, *Input) bool) Rule {
	return Rule{Name: name, Layer: layer, Slot: slot, Match: m}
}

func platformRule(platform, name string, slot field.Slot, m func(string, *Input) bool) Rule {
	return Rule{Name: platform + "." + name, Layer: LayerContext, Slot: slot, Platform: platform, Match: m}
}
