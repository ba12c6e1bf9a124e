// Package field defines the public contract of the autofill engine: field
// kinds, profile slot keys, run phases and the completion report.
// Any consumer (CLI, MCP tools, HTTP API, run history store) imports this
// package to read what the engine did.
package field

import "strings"

// Kind is the structural input type of a form control, independent of what
// the control is asking for.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindURL      Kind = "url"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
)

// Classify maps a tag name and input type attribute to a Kind.
// Unrecognised input types are text.
func Classify(tag, inputType string) Kind {
	switch strings.ToLower(tag) {
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	}

	switch strings.ToLower(strings.TrimSpace(inputType)) {
	case "email":
		return KindEmail
	case "tel":
		return KindPhone
	case "url":
		return KindURL
	case "number", "range":
		return KindNumber
	case "date", "datetime-local", "month", "week":
		return KindDate
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	}
	return KindText
}

// TextLike reports whether the kind is filled by assigning its value property.
func (k Kind) TextLike() bool {
	switch k {
	case KindSelect, KindCheckbox, KindRadio:
		return false
	}
	return true
}
