// Package question recovers the natural-language prompt associated with a
// form control. Question wording is frequently not programmatically tied to
// its input, so several structural and spatial heuristics are tried in order
// from most to least reliable; the first non-empty answer wins.
package question

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Source names the heuristic that produced a question text.
type Source string

const (
	SourceNone        Source = ""
	SourceLabel       Source = "label"
	SourceAncestor    Source = "ancestor_label"
	SourceAria        Source = "aria"
	SourceSpatial     Source = "spatial"
	SourcePlaceholder Source = "placeholder"
	SourceContainer   Source = "container"
	SourceSentence    Source = "sentence"
	SourceLegend      Source = "legend"
	SourceRadioGroup  Source = "radiogroup"
)

// Config bounds what counts as plausible question text.
type Config struct {
	MinLen       int // default 10
	MaxLen       int // default 300
	AncestorWalk int // default 5
}

func (c *Config) defaults() {
	if c.MinLen <= 0 {
		c.MinLen = 10
	}
	if c.MaxLen <= 0 {
		c.MaxLen = 300
	}
	if c.AncestorWalk <= 0 {
		c.AncestorWalk = 5
	}
}

// Extractor runs the heuristics against one document.
type Extractor struct {
	cfg Config
	doc dom.Document
}

// New creates an Extractor for doc.
func New(doc dom.Document, cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg, doc: doc}
}

// Extract returns the best question text for el, or "".
func (x *Extractor) Extract(el dom.Element) string {
	text, _ := x.ExtractWithSource(el)
	return text
}

// ExtractWithSource is Extract that also reports which heuristic answered.
func (x *Extractor) ExtractWithSource(el dom.Element) (string, Source) {
	steps := []struct {
		src Source
		fn  func(dom.Element) string
	}{
		{SourceLabel, explicitLabel},
		{SourceAncestor, ancestorLabel},
		{SourceAria, x.aria},
		{SourceSpatial, x.spatial},
		{SourcePlaceholder, placeholder},
		{SourceContainer, x.container},
		{SourceSentence, x.sentence},
	}
	for _, s := range steps {
		if t := s.fn(el); t != "" {
			return t, s.src
		}
	}
	return "", SourceNone
}

// ExtractGroup returns the shared prompt of a radio group: the enclosing
// fieldset legend, the radiogroup's accessible name, a question sentence in
// the members' common ancestor, then the first member's own text.
func (x *Extractor) ExtractGroup(members []dom.Element) (string, Source) {
	if len(members) == 0 {
		return "", SourceNone
	}
	first := members[0]

	for p := first.Parent(); p != nil; p = p.Parent() {
		if p.Tag() != "fieldset" {
			continue
		}
		for _, l := range p.Find("legend") {
			if t := dom.CleanText(l.Text()); t != "" {
				return t, SourceLegend
			}
		}
		break
	}

	for p := first.Parent(); p != nil; p = p.Parent() {
		if strings.EqualFold(p.Attr("role"), "radiogroup") {
			if t := x.ariaName(p); t != "" {
				return t, SourceRadioGroup
			}
			break
		}
	}

	if anc := commonAncestor(members); anc != nil {
		for i, p := 0, anc; p != nil && i < x.cfg.AncestorWalk; i, p = i+1, p.Parent() {
			if t := x.questionSentence(p.Text()); t != "" {
				return t, SourceSentence
			}
		}
	}

	return x.ExtractWithSource(first)
}

func explicitLabel(el dom.Element) string {
	var parts []string
	for _, l := range el.Labels() {
		if t := dom.CleanText(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func ancestorLabel(el dom.Element) string {
	if l := dom.AncestorLabel(el); l != nil {
		return dom.CleanText(l.Text())
	}
	return ""
}

func (x *Extractor) aria(el dom.Element) string {
	if t := x.ariaName(el); t != "" {
		return t
	}
	return x.idrefText(el.Attr("aria-describedby"))
}

// ariaName is aria-label, then aria-labelledby.
func (x *Extractor) ariaName(el dom.Element) string {
	if t := dom.CleanText(el.Attr("aria-label")); t != "" {
		return t
	}
	return x.idrefText(el.Attr("aria-labelledby"))
}

func (x *Extractor) idrefText(ids string) string {
	var parts []string
	for _, id := range strings.Fields(ids) {
		if ref := x.doc.ByID(id); ref != nil {
			if t := dom.CleanText(ref.Text()); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// spatial samples the page directly above, further above, left and right
// of the element and keeps text that reads like a question.
func (x *Extractor) spatial(el dom.Element) string {
	r := el.Rect()
	if r.Empty() {
		return ""
	}
	midY := r.Y + r.Height/2
	points := [][2]float64{
		{r.X + 5, r.Y - 10},
		{r.X + 5, r.Y - 40},
		{r.X - 20, midY},
		{r.X + r.Width + 20, midY},
	}
	for _, pt := range points {
		hit := x.doc.ElementAt(pt[0], pt[1])
		if hit == nil || hit.Contains(el) {
			continue
		}
		t := dom.CleanText(hit.Text())
		if x.plausible(t) && strings.Contains(t, "?") {
			return t
		}
	}
	return ""
}

func placeholder(el dom.Element) string {
	if t := dom.CleanText(el.Attr("placeholder")); t != "" {
		return t
	}
	return dom.CleanText(el.Attr("title"))
}

var containerAttrRe = regexp.MustCompile(`(?i)question|field|form-group|form-item|formfield|input-wrapper`)

// container finds the nearest ancestor that looks like a question wrapper
// and returns its first textual descendant outside the element itself.
func (x *Extractor) container(el dom.Element) string {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if !isQuestionContainer(p) {
			continue
		}
		for _, d := range p.Find("*") {
			if d.Contains(el) || el.Contains(d) {
				continue
			}
			if t := dom.CleanText(d.OwnText()); t != "" {
				return t
			}
		}
		if t := dom.CleanText(p.OwnText()); t != "" {
			return t
		}
		return ""
	}
	return ""
}

func isQuestionContainer(el dom.Element) bool {
	if containerAttrRe.MatchString(el.Attr("class")) || containerAttrRe.MatchString(el.Attr("id")) {
		return true
	}
	for _, a := range []string{"data-automation-id", "data-qa", "data-testid", "data-field"} {
		if containerAttrRe.MatchString(el.Attr(a)) {
			return true
		}
	}
	return false
}

// sentence walks up to AncestorWalk ancestors looking for a question sentence.
func (x *Extractor) sentence(el dom.Element) string {
	p := el.Parent()
	for i := 0; p != nil && i < x.cfg.AncestorWalk; i++ {
		if t := x.questionSentence(p.Text()); t != "" {
			return t
		}
		p = p.Parent()
	}
	return ""
}

var sentenceEndRe = regexp.MustCompile(`[^.!?]*[.!?]+`)

func (x *Extractor) questionSentence(text string) string {
	text = dom.CleanText(text)
	for _, s := range sentenceEndRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if strings.Contains(s, "?") && x.plausible(s) {
			return s
		}
	}
	return ""
}

func (x *Extractor) plausible(s string) bool {
	n := len([]rune(s))
	return n >= x.cfg.MinLen && n <= x.cfg.MaxLen
}

func commonAncestor(els []dom.Element) dom.Element {
	if len(els) == 0 {
		return nil
	}
	for p := els[0].Parent(); p != nil; p = p.Parent() {
		all := true
		for _, el := range els[1:] {
			if !p.Contains(el) {
				all = false
				break
			}
		}
		if all {
			return p
		}
	}
	return nil
}
