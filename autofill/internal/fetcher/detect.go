package fetcher

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var spaIndicators = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<div id="__next"></div>`,
	`<noscript>you need to enable javascript`,
	`<noscript>enable javascript`,
}

// IsSPAShell reports whether html is an empty client-rendered shell.
func IsSPAShell(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, ind := range spaIndicators {
		if bytes.Contains(lower, []byte(ind)) {
			return true
		}
	}
	return false
}

// CountControls counts the user-fillable form controls in the markup:
// inputs other than hidden and buttons, selects and textareas.
func CountControls(body []byte) int {
	z := html.NewTokenizer(bytes.NewReader(body))
	n := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return n
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "select", "textarea":
				n++
			case "input":
				typ := ""
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					if string(k) == "type" {
						typ = strings.ToLower(string(v))
					}
				}
				if !skipInput[typ] {
					n++
				}
			}
		}
	}
}

var skipInput = map[string]bool{
	"hidden": true, "submit": true, "button": true, "reset": true, "image": true,
}
