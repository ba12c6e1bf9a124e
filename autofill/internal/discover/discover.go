// Package discover enumerates the candidate form controls of a page.
package discover

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// IsVisible reports whether el is rendered and interactable: computed
// display not none, visibility not hidden, opacity not zero and a bounding
// box with positive width and height.
func IsVisible(el dom.Element) bool {
	st := el.Style()
	if st.Display == "none" || st.Visibility == "hidden" || st.Opacity == 0 {
		return false
	}
	return !el.Rect().Empty()
}

// Groups are the discovery selectors, evaluated in order. Discovery order is
// group order, then document order within a group.
var Groups = []string{
	`input[type="text"], input[type="email"], input[type="tel"], input[type="url"], input[type="number"], input[type="date"], input:not([type])`,
	`textarea`,
	`select`,
	`input[type="radio"], input[type="checkbox"]`,
	`[data-automation-id] input, [data-automation-id] textarea, [data-automation-id] select`,
	`[role="textbox"], [role="combobox"], [role="listbox"], [role="radiogroup"] input`,
	`[aria-required="true"], [required]`,
	`input[name], textarea[name], select[name]`,
}

// hiddenGroup is always included and bypasses the visibility check.
const hiddenGroup = `input[type="hidden"][name]`

var skipTypes = map[string]bool{
	"submit": true, "button": true, "reset": true, "image": true, "file": true,
}

// Discover returns the fillable elements of doc, deduplicated, visibility
// filtered, with each named radio group collapsed to its first member.
// Hidden inputs with a name are appended regardless of visibility.
func Discover(doc dom.Document) ([]dom.Element, error) {
	var out []dom.Element
	seen := make(map[string]bool)
	radioGroups := make(map[string]bool)

	add := func(el dom.Element, requireVisible bool) {
		if seen[el.Key()] || !fillable(el) {
			return
		}
		if requireVisible && !IsVisible(el) {
			return
		}
		seen[el.Key()] = true
		if isRadio(el) {
			if name := el.Attr("name"); name != "" {
				if radioGroups[name] {
					return
				}
				radioGroups[name] = true
			}
		}
		out = append(out, el)
	}

	for _, sel := range Groups {
		els, err := doc.QueryAll(sel)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		for _, el := range els {
			add(el, true)
		}
	}

	hidden, err := doc.QueryAll(hiddenGroup)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	for _, el := range hidden {
		add(el, false)
	}
	return out, nil
}

// RadioGroup returns every radio sharing el's name, in document order.
// An unnamed radio is its own group.
func RadioGroup(doc dom.Document, el dom.Element) []dom.Element {
	name := el.Attr("name")
	if name == "" {
		return []dom.Element{el}
	}
	members, err := doc.QueryAll(`input[type="radio"][name=` + dom.QuoteAttr(name) + `]`)
	if err != nil || len(members) == 0 {
		return []dom.Element{el}
	}
	return members
}

func fillable(el dom.Element) bool {
	switch el.Tag() {
	case "input", "textarea", "select":
	default:
		return false
	}
	if el.HasAttr("disabled") || el.HasAttr("readonly") {
		return false
	}
	return !skipTypes[strings.ToLower(el.Attr("type"))]
}

func isRadio(el dom.Element) bool {
	return el.Tag() == "input" && strings.EqualFold(el.Attr("type"), "radio")
}
