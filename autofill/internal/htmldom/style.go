package htmldom

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

type declaration struct {
	value     string
	important bool
}

type styleRule struct {
	sel   cascadia.SelectorGroup
	decls map[string]declaration
}

// parseStyleSheets collects top-level qualified rules from every <style>
// element. Rules nested in at-rules (@media, @supports) never apply.
func parseStyleSheets(root *html.Node) []styleRule {
	var rules []styleRule
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "style" {
			return true
		}
		sheet, err := parser.Parse(textContent(n))
		if err != nil {
			return true
		}
		for _, r := range sheet.Rules {
			if r.Kind != css.QualifiedRule || len(r.Selectors) == 0 {
				continue
			}
			sel, err := cascadia.ParseGroup(strings.Join(r.Selectors, ", "))
			if err != nil {
				continue
			}
			rules = append(rules, styleRule{sel: sel, decls: declarationMap(r.Declarations)})
		}
		return true
	})
	return rules
}

func declarationMap(decls []*css.Declaration) map[string]declaration {
	out := make(map[string]declaration, len(decls))
	for _, d := range decls {
		name := strings.ToLower(strings.TrimSpace(d.Property))
		if name == "" {
			continue
		}
		out[name] = declaration{value: strings.ToLower(strings.TrimSpace(d.Value)), important: d.Important}
	}
	return out
}

func inlineDeclarations(n *html.Node) map[string]declaration {
	style := attr(n, "style")
	if strings.TrimSpace(style) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil
	}
	return declarationMap(decls)
}

// declarations merges stylesheet rules in source order, then the inline
// style. An !important stylesheet value survives a plain inline one.
func (d *Document) declarations(n *html.Node) map[string]string {
	merged := make(map[string]declaration)
	apply := func(decls map[string]declaration) {
		for k, v := range decls {
			if cur, ok := merged[k]; ok && cur.important && !v.important {
				continue
			}
			merged[k] = v
		}
	}
	for _, r := range d.rules {
		if r.sel.Match(n) {
			apply(r.decls)
		}
	}
	apply(inlineDeclarations(n))

	out := make(map[string]string, len(merged))
	for k, v := range merged {
		out[k] = v.value
	}
	return out
}

func (d *Document) computeStyle(n *html.Node) dom.Style {
	decls := d.declarations(n)

	st := dom.Style{Display: defaultDisplay(n), Visibility: "visible", Opacity: 1}
	if hasAttr(n, "hidden") || (n.Data == "input" && strings.EqualFold(attr(n, "type"), "hidden")) {
		st.Display = "none"
	}
	if v, ok := decls["display"]; ok {
		st.Display = v
	}

	// visibility inherits.
	if v, ok := decls["visibility"]; ok && v != "inherit" {
		st.Visibility = v
	} else if p := n.Parent; p != nil && p.Type == html.ElementNode {
		st.Visibility = d.computeStyle(p).Visibility
	}

	if v, ok := decls["opacity"]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			if strings.HasSuffix(v, "%") {
				f /= 100
			}
			st.Opacity = f
		}
	}
	return st
}

func defaultDisplay(n *html.Node) string {
	if nonRendered[n.Data] {
		return "none"
	}
	switch n.Data {
	case "input", "select", "textarea", "button":
		return "inline-block"
	case "span", "a", "label", "b", "i", "em", "strong", "small":
		return "inline"
	}
	return "block"
}

func zeroSized(decls map[string]string) bool {
	return isZeroLength(decls["width"]) || isZeroLength(decls["height"])
}

func isZeroLength(v string) bool {
	if v == "" {
		return false
	}
	v = strings.TrimRight(v, "pxemr%")
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}
