package autofill

import (
	"context"
	"io"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
	"github.com/hazyhaar/jobfill/autofill/internal/htmldom"
)

// Document is a page the engine can fill. Re-exported from internal.
type Document = dom.Document

// Element is one node of a Document.
type Element = dom.Element

// ParseHTML parses a static page. The result lays elements out in a
// synthetic single-column flow and applies <style> rules, which is enough
// for discovery, question extraction and filling without a browser.
func ParseHTML(r io.Reader, pageURL string) (*htmldom.Document, error) {
	return htmldom.Parse(r, pageURL)
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(s, pageURL string) (*htmldom.Document, error) {
	return htmldom.ParseString(s, pageURL)
}

// Source yields the document a trigger should run against.
type Source interface {
	Document(ctx context.Context) (Document, error)
}

// StaticSource always yields the same document.
type StaticSource struct {
	Doc Document
}

func (s StaticSource) Document(context.Context) (Document, error) {
	if s.Doc == nil {
		return nil, ErrPageNotReady
	}
	return s.Doc, nil
}
