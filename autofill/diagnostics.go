package autofill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/discover"
	"github.com/hazyhaar/jobfill/autofill/internal/question"
	"github.com/hazyhaar/jobfill/autofill/internal/resolve"
	"github.com/hazyhaar/jobfill/profile"
)

// QuestionText is the extracted prompt of one discovered field.
type QuestionText struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Source   string `json:"source"`
}

// ProfileDump is the profile a run would use right now.
type ProfileDump struct {
	Source  string                `json:"source"` // coordinator | minimal
	Keys    []string              `json:"keys"`
	Values  map[field.Slot]string `json:"values"`
	Profile profile.Profile       `json:"profile"`
}

// DescribeFields lists what discovery would find on doc, with the
// question text and slot each field resolves to. Nothing is filled.
func (c *Controller) DescribeFields(ctx context.Context, doc Document) ([]field.Info, error) {
	if doc == nil || !doc.Ready() {
		return nil, ErrPageNotReady
	}
	els, err := c.discover(doc)
	if err != nil {
		return nil, err
	}
	platform := c.platform(ctx, doc.URL())
	x := c.extractor(doc)

	out := make([]field.Info, 0, len(els))
	for i, el := range els {
		kind := field.Classify(el.Tag(), el.Attr("type"))
		q, group := c.questions(doc, x, el, kind)
		r := el.Rect()
		info := field.Info{
			Index:       i,
			Tag:         el.Tag(),
			Type:        el.Attr("type"),
			Kind:        kind,
			Name:        el.Attr("name"),
			ID:          el.Attr("id"),
			Placeholder: el.Attr("placeholder"),
			AriaLabel:   el.Attr("aria-label"),
			Title:       el.Attr("title"),
			Class:       el.Attr("class"),
			Value:       el.Value(),
			Required:    el.HasAttr("required") || el.Attr("aria-required") == "true",
			Visible:     discover.IsVisible(el),
			Question:    q,
			X:           r.X,
			Y:           r.Y,
			Width:       r.Width,
			Height:      r.Height,
		}
		if group != "" {
			info.Question = group
		}
		if m, ok := c.resolver.Resolve(resolve.InputFor(el, kind, q, group, platform)); ok {
			info.Slot, info.Rule = m.Slot, m.Rule
		}
		out = append(out, info)
	}
	return out, nil
}

// QuestionTexts returns the extracted question of every discovered field
// and the heuristic that produced it.
func (c *Controller) QuestionTexts(ctx context.Context, doc Document) ([]QuestionText, error) {
	if doc == nil || !doc.Ready() {
		return nil, ErrPageNotReady
	}
	els, err := c.discover(doc)
	if err != nil {
		return nil, err
	}
	x := c.extractor(doc)

	out := make([]QuestionText, 0, len(els))
	for i, el := range els {
		qt := QuestionText{Index: i, Name: el.Attr("name"), ID: el.Attr("id")}
		var src question.Source
		if field.Classify(el.Tag(), el.Attr("type")) == field.KindRadio {
			qt.Question, src = x.ExtractGroup(discover.RadioGroup(doc, el))
		} else {
			qt.Question, src = x.ExtractWithSource(el)
		}
		qt.Source = string(src)
		out = append(out, qt)
	}
	return out, nil
}

// DumpProfile fetches the profile the way a run does, without enrichment,
// and renders every slot value.
func (c *Controller) DumpProfile(ctx context.Context) ProfileDump {
	d := ProfileDump{Source: "coordinator", Values: make(map[field.Slot]string)}
	var p profile.Profile
	if c.opts.Coordinator != nil {
		cctx, cancel := context.WithTimeout(ctx, c.opts.CoordinatorTimeout)
		got, err := c.opts.Coordinator.UserProfile(cctx)
		cancel()
		if err == nil && got != nil {
			p = got
		} else {
			c.logger.Debug("autofill: profile dump falls back to minimal", "error", err)
		}
	}
	if p == nil {
		p, d.Source = profile.Minimal(), "minimal"
	}
	d.Profile = p
	d.Keys = p.Keys()
	for _, s := range field.AllSlots() {
		v, _ := profile.ValueFor(s, p)
		d.Values[s] = v
	}
	return d
}

func (c *Controller) extractor(doc Document) *question.Extractor {
	return question.New(doc, question.Config{
		MinLen:       c.opts.QuestionMinLen,
		MaxLen:       c.opts.QuestionMaxLen,
		AncestorWalk: c.opts.AncestorWalk,
	})
}

// LogFields writes DescribeFields to the logger, one line per field.
func (c *Controller) LogFields(ctx context.Context, doc Document) error {
	infos, err := c.DescribeFields(ctx, doc)
	if err != nil {
		return fmt.Errorf("autofill: describe: %w", err)
	}
	for _, in := range infos {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "autofill: field",
			slog.Int("index", in.Index),
			slog.String("kind", string(in.Kind)),
			slog.String("name", in.Name),
			slog.String("question", in.Question),
			slog.String("slot", string(in.Slot)),
			slog.Bool("visible", in.Visible),
		)
	}
	return nil
}
