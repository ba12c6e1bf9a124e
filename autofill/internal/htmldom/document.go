// Package htmldom is a static dom backend over golang.org/x/net/html.
//
// There is no rendering engine behind it, so geometry is a synthetic flow
// layout: every rendered element in <body> gets its own 24px row, in
// document order. Inline styles, the hidden attribute and simple <style>
// rules are honoured for display, visibility, opacity and zero width/height.
// Mutations update the parsed tree in place; dispatched events are recorded.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Layout constants of the synthetic flow.
const (
	RowHeight  = 24
	ElemHeight = 20
	ElemWidth  = 600
)

// Event is a recorded dispatch.
type Event struct {
	Key  string
	Name string
}

// Document is a parsed HTML page.
type Document struct {
	url  string
	root *html.Node
	body *html.Node

	mu     sync.Mutex
	elems  map[*html.Node]*Element
	seq    int
	rules  []styleRule
	rects  map[*html.Node]dom.Rect
	rows   []*html.Node
	dirty  bool
	events []Event

	// OnDispatch, when set, is called for every dispatched event. A non-nil
	// error is returned from Dispatch after the event has been recorded.
	OnDispatch func(el *Element, event string) error
}

// Parse reads an HTML document. pageURL is reported by URL.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}
	d := &Document{
		url:   pageURL,
		root:  root,
		elems: make(map[*html.Node]*Element),
		dirty: true,
	}
	d.body = findTag(root, "body")
	d.rules = parseStyleSheets(root)
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

func (d *Document) URL() string { return d.url }

func (d *Document) Ready() bool { return d.root != nil && d.body != nil }

// QueryAll returns elements matching selector in document order.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: selector %q: %w", selector, err)
	}
	return d.wrapAll(cascadia.QueryAll(d.root, sel)), nil
}

func (d *Document) ByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

// ElementAt hit-tests the synthetic layout. Elements with visibility hidden
// are transparent to hit testing.
func (d *Document) ElementAt(x, y float64) dom.Element {
	d.layout()
	if y < 0 || x < 0 || x > ElemWidth {
		return nil
	}
	row := int(y) / RowHeight
	if row >= len(d.rows) || y-float64(row*RowHeight) > ElemHeight {
		return nil
	}
	n := d.rows[row]
	if d.computeStyle(n).Visibility == "hidden" {
		return nil
	}
	return d.wrap(n)
}

// HTML renders the current tree, including engine mutations.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("htmldom: render: %w", err)
	}
	return buf.String(), nil
}

// Events returns a copy of the dispatched event log.
func (d *Document) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.events...)
}

// EventsFor returns the event names dispatched on el.
func (d *Document) EventsFor(el dom.Element) []string {
	var out []string
	for _, e := range d.Events() {
		if e.Key == el.Key() {
			out = append(out, e.Name)
		}
	}
	return out
}

// Remove detaches el from the tree, as a page re-render would.
func (d *Document) Remove(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e.n.Parent == nil {
		return
	}
	e.n.Parent.RemoveChild(e.n)
	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()
}

func (d *Document) wrap(n *html.Node) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.elems[n]; ok {
		return e
	}
	d.seq++
	e := &Element{doc: d, n: n, key: "n" + strconv.Itoa(d.seq)}
	d.elems[n] = e
	return e
}

func (d *Document) wrapAll(nodes []*html.Node) []dom.Element {
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) record(key, name string) {
	d.mu.Lock()
	d.events = append(d.events, Event{Key: key, Name: name})
	d.mu.Unlock()
}

// layout assigns a row to every rendered element in body.
func (d *Document) layout() {
	d.mu.Lock()
	dirty := d.dirty
	d.mu.Unlock()
	if !dirty {
		return
	}

	rects := make(map[*html.Node]dom.Rect)
	var rows []*html.Node
	if d.body != nil {
		var visit func(n *html.Node)
		visit = func(n *html.Node) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode || nonRendered[c.Data] {
					continue
				}
				if d.computeStyle(c).Display == "none" {
					continue
				}
				if !zeroSized(d.declarations(c)) {
					rects[c] = dom.Rect{
						X:      0,
						Y:      float64(len(rows) * RowHeight),
						Width:  ElemWidth,
						Height: ElemHeight,
					}
					rows = append(rows, c)
				}
				visit(c)
			}
		}
		visit(d.body)
	}

	d.mu.Lock()
	d.rects = rects
	d.rows = rows
	d.dirty = false
	d.mu.Unlock()
}

func (d *Document) rect(n *html.Node) dom.Rect {
	d.layout()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rects[n]
}

var nonRendered = map[string]bool{
	"script": true, "style": true, "template": true, "noscript": true,
	"option": true, "optgroup": true, "head": true, "title": true,
	"meta": true, "link": true,
}

// --- tree helpers ---

// walk visits n and its descendants in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findTag(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func delAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(c *html.Node)
	visit = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
			b.WriteByte(' ')
		case c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style"):
			return
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			visit(k)
		}
	}
	visit(n)
	return b.String()
}
