// Package resolve maps a form control to the profile slot it asks for.
//
// Matching is an ordered list of pure predicate rules grouped in layers,
// evaluated first-match-wins:
//
//  1. application questions (topic AND framing keyword clusters)
//  2. common behavioural questions (keyword pairs)
//  3. context-aware single-concept keywords, then the platform table
//  4. exact identifier patterns over name/id/placeholder/label/aria/title/class
//  5. fuzzy single-word identifier tokens
//
// Layers 1-3 read the question text; 4-5 read the element identifiers.
// A radio first tries its group's question text against the layer 3
// keyword rules only, then falls through to the full pipeline.
package resolve

import (
	"strings"
	"unicode"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Layer is a rule precedence tier.
type Layer int

const (
	LayerApplication Layer = iota + 1
	LayerCommon
	LayerContext
	LayerExact
	LayerFuzzy
)

func (l Layer) String() string {
	switch l {
	case LayerApplication:
		return "application"
	case LayerCommon:
		return "common"
	case LayerContext:
		return "context"
	case LayerExact:
		return "exact"
	case LayerFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// Input is everything the rules may look at. Build it with InputFor.
type Input struct {
	Kind     field.Kind
	Question string // the element's own question text
	Group    string // radio group question text
	Platform string

	// Attrs holds raw identifier attributes keyed by name, plus "label".
	Attrs map[string]string

	idents []string        // normalised identifiers
	tokens map[string]bool // identifier words
}

// identAttrs are the identifiers the exact and fuzzy layers consult.
var identAttrs = []string{"name", "id", "placeholder", "aria-label", "title", "class", "data-automation-id"}

// InputFor reads the identifiers of el.
func InputFor(el dom.Element, kind field.Kind, question, group, platform string) *Input {
	attrs := make(map[string]string, len(identAttrs)+1)
	for _, a := range identAttrs {
		if v := el.Attr(a); v != "" {
			attrs[a] = v
		}
	}
	if l := dom.LabelText(el); l != "" {
		attrs["label"] = l
	}
	return NewInput(kind, question, group, platform, attrs)
}

// NewInput builds an Input from already-extracted attributes.
func NewInput(kind field.Kind, question, group, platform string, attrs map[string]string) *Input {
	in := &Input{
		Kind:     kind,
		Question: normaliseText(question),
		Group:    normaliseText(group),
		Platform: strings.ToLower(platform),
		Attrs:    attrs,
		tokens:   make(map[string]bool),
	}
	for _, v := range attrs {
		if n := normaliseIdent(v); n != "" {
			in.idents = append(in.idents, n)
		}
		for _, w := range words(v) {
			in.tokens[w] = true
		}
	}
	return in
}

// Match describes the rule that resolved a field.
type Match struct {
	Slot  field.Slot
	Rule  string
	Layer Layer
	// Group is true when the radio group pre-step answered.
	Group bool
}

// Resolver evaluates an ordered rule list.
type Resolver struct {
	rules []Rule
}

// New returns a Resolver over the built-in rules.
func New() *Resolver { return &Resolver{rules: DefaultRules()} }

// NewWithRules returns a Resolver over rules, in the given order.
func NewWithRules(rules []Rule) *Resolver { return &Resolver{rules: rules} }

// Rules returns the rule list in evaluation order.
func (r *Resolver) Rules() []Rule { return append([]Rule(nil), r.rules...) }

// Resolve returns the first matching slot.
func (r *Resolver) Resolve(in *Input) (Match, bool) {
	if in.Kind == field.KindRadio && in.Group != "" {
		for _, rule := range r.rules {
			if rule.Layer != LayerContext || rule.Platform != "" {
				continue
			}
			if rule.Match(in.Group, in) {
				return Match{Slot: rule.Slot, Rule: rule.Name, Layer: rule.Layer, Group: true}, true
			}
		}
	}

	for _, rule := range r.rules {
		if rule.Platform != "" && rule.Platform != in.Platform {
			continue
		}
		if rule.Match(in.Question, in) {
			return Match{Slot: rule.Slot, Rule: rule.Name, Layer: rule.Layer}, true
		}
	}
	return Match{}, false
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

func normaliseText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(apostrophes.Replace(s))), " ")
}

// normaliseIdent lower-cases and drops everything but letters and digits,
// so first_name, first-name and firstName compare equal.
func normaliseIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// words splits an identifier on punctuation and camelCase boundaries.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(rs[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// hasTerm matches short single words on word boundaries and everything else
// as a substring.
func hasTerm(text, term string) bool {
	if len(term) <= 3 && isWord(term) {
		return containsWord(text, term)
	}
	return strings.Contains(text, term)
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// containsWord reports whether w occurs in text delimited by non-alphanumerics.
func containsWord(text, w string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], w)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(w)
		if boundary(text, start-1) && boundary(text, end) {
			return true
		}
		i = start + 1
	}
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := rune(s[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}
