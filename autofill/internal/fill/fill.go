// Package fill applies a resolved value to a form control using the
// injection strategy of its kind.
package fill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/discover"
	"github.com/hazyhaar/jobfill/autofill/internal/dom"
)

// Filler applies values. It never panics out: faults become OutcomeFailed.
type Filler struct {
	logger *slog.Logger
}

// New creates a Filler. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{logger: logger}
}

// Fill applies value to el. The returned error carries detail for
// OutcomeFailed and OutcomeDetached; it is nil otherwise.
func (f *Filler) Fill(ctx context.Context, doc dom.Document, el dom.Element, kind field.Kind, value string) (out field.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = field.OutcomeFailed, fmt.Errorf("fill: panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return field.OutcomeFailed, err
	}
	if !el.Connected() {
		return field.OutcomeDetached, dom.ErrDetached
	}

	switch kind {
	case field.KindSelect:
		return f.fillSelect(el, value)
	case field.KindCheckbox:
		return f.fillCheckbox(el, value)
	case field.KindRadio:
		return f.fillRadio(doc, el, value)
	default:
		return f.fillText(el, value)
	}
}

func (f *Filler) fillText(el dom.Element, value string) (field.Outcome, error) {
	if err := el.SetValue(value); err != nil {
		return failure(err)
	}
	f.notify(el, "input", "change")
	return field.OutcomeFilled, nil
}

func (f *Filler) fillSelect(el dom.Element, value string) (field.Outcome, error) {
	idx := MatchOption(el.Options(), value)
	if idx < 0 {
		return field.OutcomeNoMatch, nil
	}
	if err := el.SelectOption(idx); err != nil {
		return failure(err)
	}
	f.notify(el, "input", "change")
	return field.OutcomeFilled, nil
}

func (f *Filler) fillCheckbox(el dom.Element, value string) (field.Outcome, error) {
	if err := el.SetChecked(Truthy(value)); err != nil {
		return failure(err)
	}
	f.notify(el, "input", "change")
	return field.OutcomeFilled, nil
}

func (f *Filler) fillRadio(doc dom.Document, el dom.Element, value string) (field.Outcome, error) {
	members := discover.RadioGroup(doc, el)
	m := MatchRadio(members, value)
	if m == nil {
		return field.OutcomeNoMatch, nil
	}
	if !m.Connected() {
		return field.OutcomeDetached, dom.ErrDetached
	}
	if err := m.SetChecked(true); err != nil {
		return failure(err)
	}
	f.notify(m, "click", "input", "change")
	return field.OutcomeFilled, nil
}

// notify fires events; page listeners that throw do not revert the value.
func (f *Filler) notify(el dom.Element, events ...string) {
	if err := el.Dispatch(events...); err != nil {
		f.logger.Warn("fill: event dispatch failed", "element", dom.Describe(el), "error", err)
	}
}

func failure(err error) (field.Outcome, error) {
	if errors.Is(err, dom.ErrDetached) {
		return field.OutcomeDetached, err
	}
	return field.OutcomeFailed, err
}

// Truthy is the checkbox rule: any non-empty value except "false" and "0".
func Truthy(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v != "" && v != "false" && v != "0"
}
