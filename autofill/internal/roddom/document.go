// Package roddom implements the dom interfaces over a live Chrome tab.
// Every accessor is a CDP round trip; reads that fail return zero values.
package roddom

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Document is a live page.
type Document struct {
	page *rod.Page
}

// New wraps page. Calls are bound to ctx; cancel it to abort a run that
// is blocked on the browser.
func New(ctx context.Context, page *rod.Page) *Document {
	return &Document{page: page.Context(ctx)}
}

// Page returns the underlying Rod page.
func (d *Document) Page() *rod.Page { return d.page }

func (d *Document) URL() string {
	res, err := d.page.Eval(`() => location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (d *Document) Ready() bool {
	res, err := d.page.Eval(`() => document.readyState !== "loading" && !!document.body`)
	return err == nil && res.Value.Bool()
}

func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	return d.wrapAll(els), nil
}

func (d *Document) ByID(id string) dom.Element {
	els, err := d.page.Elements(`[id=` + dom.QuoteAttr(id) + `]`)
	if err != nil || len(els) == 0 {
		return nil
	}
	return d.wrap(els.First())
}

func (d *Document) ElementAt(x, y float64) dom.Element {
	obj, err := d.page.Evaluate(rod.Eval(`(x, y) => document.elementFromPoint(x, y)`, x, y).ByObject())
	if err != nil || obj.ObjectID == "" || obj.Subtype == proto.RuntimeRemoteObjectSubtypeNull {
		return nil
	}
	el, err := d.page.ElementFromObject(obj)
	if err != nil {
		return nil
	}
	return d.wrap(el)
}

func (d *Document) HTML() (string, error) {
	return d.page.HTML()
}

func (d *Document) wrap(el *rod.Element) *Element {
	if el == nil {
		return nil
	}
	return &Element{el: el, doc: d}
}

func (d *Document) wrapAll(els rod.Elements) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, d.wrap(el))
	}
	return out
}

// Element is a live node.
type Element struct {
	el  *rod.Element
	doc *Document

	keyOnce sync.Once
	key     string
}

// Key is the backend node ID, stable for the node's lifetime.
func (e *Element) Key() string {
	e.keyOnce.Do(func() {
		node, err := e.el.Describe(0, false)
		if err == nil {
			e.key = strconv.Itoa(int(node.BackendNodeID))
		} else {
			e.key = string(e.el.Object.ObjectID)
		}
	})
	return e.key
}

func (e *Element) eval(js string, args ...any) (*proto.RuntimeRemoteObject, error) {
	return e.el.Eval(js, args...)
}

func (e *Element) str(js string) string {
	res, err := e.eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (e *Element) Tag() string {
	return e.str(`() => this.tagName.toLowerCase()`)
}

func (e *Element) Attr(name string) string {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (e *Element) HasAttr(name string) bool {
	v, err := e.el.Attribute(name)
	return err == nil && v != nil
}

func (e *Element) Text() string { return e.str(`() => this.textContent || ""`) }

func (e *Element) OwnText() string {
	return e.str(`() => Array.from(this.childNodes)
		.filter(n => n.nodeType === Node.TEXT_NODE)
		.map(n => n.textContent).join(" ")`)
}

func (e *Element) Value() string {
	return e.str(`() => this.value == null ? "" : String(this.value)`)
}

func (e *Element) Checked() bool {
	res, err := e.eval(`() => !!this.checked`)
	return err == nil && res.Value.Bool()
}

func (e *Element) Options() []dom.Option {
	res, err := e.eval(`() => Array.from(this.options || []).map(o => ({
		text: o.text, value: o.value, selected: o.selected}))`)
	if err != nil {
		return nil
	}
	arr := res.Value.Arr()
	out := make([]dom.Option, 0, len(arr))
	for i, o := range arr {
		out = append(out, dom.Option{
			Index:    i,
			Text:     o.Get("text").Str(),
			Value:    o.Get("value").Str(),
			Selected: o.Get("selected").Bool(),
		})
	}
	return out
}

func (e *Element) Rect() dom.Rect {
	res, err := e.eval(`() => { const r = this.getBoundingClientRect();
		return {x: r.x, y: r.y, w: r.width, h: r.height}; }`)
	if err != nil {
		return dom.Rect{}
	}
	v := res.Value
	return dom.Rect{X: v.Get("x").Num(), Y: v.Get("y").Num(), Width: v.Get("w").Num(), Height: v.Get("h").Num()}
}

func (e *Element) Style() dom.Style {
	res, err := e.eval(`() => { const s = getComputedStyle(this);
		return {display: s.display, visibility: s.visibility, opacity: parseFloat(s.opacity)}; }`)
	if err != nil {
		return dom.Style{Opacity: 1}
	}
	v := res.Value
	return dom.Style{
		Display:    v.Get("display").Str(),
		Visibility: v.Get("visibility").Str(),
		Opacity:    v.Get("opacity").Num(),
	}
}

func (e *Element) Parent() dom.Element {
	p, err := e.el.Parent()
	if err != nil || p == nil {
		return nil
	}
	return e.doc.wrap(p)
}

func (e *Element) Contains(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	res, err := e.eval(`(o) => this.contains(o)`, o.el.Object)
	return err == nil && res.Value.Bool()
}

func (e *Element) Connected() bool {
	res, err := e.eval(`() => this.isConnected`)
	return err == nil && res.Value.Bool()
}

func (e *Element) Labels() []dom.Element {
	els, err := e.el.ElementsByJS(rod.Eval(`() => Array.from(this.labels || [])
		.filter(l => l.htmlFor && l.htmlFor === this.id)`))
	if err != nil {
		return nil
	}
	return e.doc.wrapAll(els)
}

func (e *Element) Find(selector string) []dom.Element {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil
	}
	return e.doc.wrapAll(els)
}

// Setters go through the prototype's native setter so framework-managed
// inputs (React, Vue) see the change.
const setValueJS = `(v) => {
	const proto = this instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
		: this instanceof HTMLSelectElement ? HTMLSelectElement.prototype
		: HTMLInputElement.prototype;
	const d = Object.getOwnPropertyDescriptor(proto, "value");
	if (d && d.set) { d.set.call(this, v); } else { this.value = v; }
}`

const setCheckedJS = `(c) => {
	const d = Object.getOwnPropertyDescriptor(HTMLInputElement.prototype, "checked");
	if (d && d.set) { d.set.call(this, c); } else { this.checked = c; }
}`

const selectJS = `(i) => {
	if (i < 0 || i >= this.options.length) { throw new Error("option index out of range"); }
	this.options[i].selected = true;
	this.selectedIndex = i;
}`

const dispatchJS = `(name) => {
	const ev = name === "click"
		? new MouseEvent(name, {bubbles: true, cancelable: true, view: window})
		: new Event(name, {bubbles: true});
	this.dispatchEvent(ev);
}`

func (e *Element) SetValue(v string) error  { return e.mutate(setValueJS, v) }
func (e *Element) SetChecked(c bool) error  { return e.mutate(setCheckedJS, c) }
func (e *Element) SelectOption(i int) error { return e.mutate(selectJS, i) }

// Dispatch fires events in order. Listener exceptions do not surface
// through dispatchEvent; an error means the node or the tab went away.
func (e *Element) Dispatch(events ...string) error {
	for _, name := range events {
		if err := e.mutate(dispatchJS, name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) mutate(js string, arg any) error {
	if !e.Connected() {
		return dom.ErrDetached
	}
	if _, err := e.eval(js, arg); err != nil {
		if !e.Connected() {
			return dom.ErrDetached
		}
		return fmt.Errorf("roddom: %s: %w", dom.Describe(e), err)
	}
	return nil
}
