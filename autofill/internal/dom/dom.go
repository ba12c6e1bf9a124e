// Package dom abstracts the page the engine works on. Two backends implement
// it: htmldom over parsed HTML and roddom over a live Chrome tab.
//
// Read accessors never fail: a backend that cannot read a property (detached
// node, CDP error) returns the zero value. Mutations return an error.
package dom

import (
	"errors"
	"strings"
)

// ErrDetached is returned when an element is no longer attached to its document.
var ErrDetached = errors.New("dom: element detached")

// Rect is an element's rendered bounding box in CSS pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Empty reports whether the box has no rendered area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Style holds the computed properties the visibility check consumes.
type Style struct {
	Display    string
	Visibility string
	Opacity    float64
}

// Option is one entry of a select element.
type Option struct {
	Index    int
	Text     string
	Value    string
	Selected bool
}

// Element is an opaque reference to a page node. It is owned by the page and
// may be mutated or removed at any time.
type Element interface {
	// Key is stable for the lifetime of the node within its document.
	Key() string
	// Tag is the lower-case tag name.
	Tag() string
	Attr(name string) string
	HasAttr(name string) bool

	// Text is the concatenated text of all descendants.
	Text() string
	// OwnText is the text of direct child text nodes only.
	OwnText() string

	Value() string
	Checked() bool
	Options() []Option
	Rect() Rect
	Style() Style

	Parent() Element
	Contains(other Element) bool
	Connected() bool
	// Labels returns label elements associated through for=id.
	Labels() []Element
	// Find returns descendants matching a CSS selector in document order.
	Find(selector string) []Element

	SetValue(v string) error
	SetChecked(checked bool) error
	SelectOption(index int) error
	// Dispatch fires the named events on the element in order.
	Dispatch(events ...string) error
}

// Document is the page root.
type Document interface {
	URL() string
	// Ready reports whether the document root is usable.
	Ready() bool
	QueryAll(selector string) ([]Element, error)
	ByID(id string) Element
	// ElementAt returns the topmost element at viewport point (x, y), or nil.
	ElementAt(x, y float64) Element
	HTML() (string, error)
}

// CleanText collapses whitespace and strips a trailing required marker.
func CleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, " *")
	return strings.TrimSpace(s)
}

// AncestorLabel returns the nearest enclosing label element, or nil.
func AncestorLabel(el Element) Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag() == "label" {
			return p
		}
	}
	return nil
}

// LabelText returns the text of the labels associated with el: explicit
// for=id labels first, then the enclosing label.
func LabelText(el Element) string {
	var parts []string
	for _, l := range el.Labels() {
		if t := CleanText(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if l := AncestorLabel(el); l != nil {
		return CleanText(l.Text())
	}
	return ""
}

// QuoteAttr quotes s as a CSS attribute selector value.
func QuoteAttr(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// Describe summarises an element for logs.
func Describe(el Element) string {
	var b strings.Builder
	b.WriteString(el.Tag())
	if id := el.Attr("id"); id != "" {
		b.WriteString("#" + id)
	}
	if name := el.Attr("name"); name != "" {
		b.WriteString("[name=" + name + "]")
	}
	return b.String()
}
