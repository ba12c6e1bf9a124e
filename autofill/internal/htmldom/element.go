package htmldom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Element wraps a parsed element node.
type Element struct {
	doc *Document
	n   *html.Node
	key string
}

func (e *Element) Key() string { return e.key }
func (e *Element) Tag() string { return e.n.Data }

func (e *Element) Attr(name string) string { return attr(e.n, strings.ToLower(name)) }

func (e *Element) HasAttr(name string) bool { return hasAttr(e.n, strings.ToLower(name)) }

func (e *Element) Text() string { return textContent(e.n) }

func (e *Element) OwnText() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func (e *Element) Value() string {
	switch e.n.Data {
	case "textarea":
		return textContent(e.n)
	case "select":
		opts := e.Options()
		for _, o := range opts {
			if o.Selected {
				return o.Value
			}
		}
		if len(opts) > 0 {
			return opts[0].Value
		}
		return ""
	}
	return attr(e.n, "value")
}

func (e *Element) Checked() bool { return hasAttr(e.n, "checked") }

func (e *Element) Options() []dom.Option {
	if e.n.Data != "select" {
		return nil
	}
	var out []dom.Option
	for _, n := range e.optionNodes() {
		text := dom.CleanText(textContent(n))
		val := text
		if hasAttr(n, "value") {
			val = attr(n, "value")
		}
		out = append(out, dom.Option{
			Index:    len(out),
			Text:     text,
			Value:    val,
			Selected: hasAttr(n, "selected"),
		})
	}
	return out
}

func (e *Element) optionNodes() []*html.Node {
	var out []*html.Node
	walk(e.n, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "option" {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (e *Element) Rect() dom.Rect { return e.doc.rect(e.n) }

func (e *Element) Style() dom.Style { return e.doc.computeStyle(e.n) }

func (e *Element) Parent() dom.Element {
	p := e.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Contains follows DOM semantics: an element contains itself.
func (e *Element) Contains(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	for n := o.n; n != nil; n = n.Parent {
		if n == e.n {
			return true
		}
	}
	return false
}

func (e *Element) Connected() bool {
	n := e.n
	for n.Parent != nil {
		n = n.Parent
	}
	return n == e.doc.root
}

func (e *Element) Labels() []dom.Element {
	id := attr(e.n, "id")
	if id == "" {
		return nil
	}
	labels, err := e.doc.QueryAll("label[for=" + dom.QuoteAttr(id) + "]")
	if err != nil {
		return nil
	}
	return labels
}

func (e *Element) Find(selector string) []dom.Element {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	return e.doc.wrapAll(cascadia.QueryAll(e.n, sel))
}

func (e *Element) SetValue(v string) error {
	if !e.Connected() {
		return dom.ErrDetached
	}
	switch e.n.Data {
	case "textarea":
		for c := e.n.FirstChild; c != nil; {
			next := c.NextSibling
			e.n.RemoveChild(c)
			c = next
		}
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: v})
	case "select":
		for i, o := range e.Options() {
			if o.Value == v {
				return e.SelectOption(i)
			}
		}
		return fmt.Errorf("htmldom: select has no option %q", v)
	default:
		setAttr(e.n, "value", v)
	}
	return nil
}

// SetChecked checks or unchecks the element. Checking a radio unchecks the
// other members of its group.
func (e *Element) SetChecked(checked bool) error {
	if !e.Connected() {
		return dom.ErrDetached
	}
	if !checked {
		delAttr(e.n, "checked")
		return nil
	}
	if strings.EqualFold(attr(e.n, "type"), "radio") {
		if name := attr(e.n, "name"); name != "" {
			members, _ := e.doc.QueryAll(`input[type="radio"][name=` + dom.QuoteAttr(name) + `]`)
			for _, m := range members {
				delAttr(m.(*Element).n, "checked")
			}
		}
	}
	setAttr(e.n, "checked", "")
	return nil
}

func (e *Element) SelectOption(index int) error {
	if !e.Connected() {
		return dom.ErrDetached
	}
	opts := e.optionNodes()
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("htmldom: option index %d out of range", index)
	}
	for _, o := range opts {
		delAttr(o, "selected")
	}
	setAttr(opts[index], "selected", "")
	return nil
}

func (e *Element) Dispatch(events ...string) error {
	if !e.Connected() {
		return dom.ErrDetached
	}
	var firstErr error
	for _, ev := range events {
		e.doc.record(e.key, ev)
		if e.doc.OnDispatch != nil {
			if err := e.doc.OnDispatch(e, ev); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

var (
	_ dom.Element  = (*Element)(nil)
	_ dom.Document = (*Document)(nil)
)
