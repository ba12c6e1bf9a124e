package autofill

import (
	"context"
	"testing"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/host"
	"github.com/hazyhaar/jobfill/profile"
)

func TestDescribeFieldsDoesNotFill(t *testing.T) {
	doc := page(t, `
		<label for="e">Email address</label><input id="e" name="email" required>
		<input type="hidden" name="token" value="t">`)
	c := New(Options{Coordinator: &host.Static{Profile: profile.Profile{
		"personalInfo": map[string]any{"email": "jane@example.com"},
	}}})

	infos, err := c.DescribeFields(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("fields: got %d, want 2", len(infos))
	}
	if infos[1].Name != "token" || infos[1].Visible {
		t.Errorf("hidden input: got %+v", infos[1])
	}
	in := infos[0]
	if in.Slot != field.SlotEmail || in.Kind != field.KindText && in.Kind != field.KindEmail {
		t.Errorf("info: got slot %q kind %q", in.Slot, in.Kind)
	}
	if !in.Required || !in.Visible {
		t.Errorf("flags: required %v visible %v, want both", in.Required, in.Visible)
	}
	if in.Question != "Email address" {
		t.Errorf("question: got %q", in.Question)
	}
	if got := doc.ByID("e").Value(); got != "" {
		t.Errorf("value written during describe: %q", got)
	}
	if c.Phase() != field.PhaseIdle {
		t.Errorf("phase: got %s, want idle", c.Phase())
	}
}

func TestQuestionTextsSources(t *testing.T) {
	doc := page(t, `
		<label for="a">Your first name</label><input id="a" name="fn">
		<input id="b" name="city" aria-label="City of residence">
		<fieldset><legend>Are you willing to relocate?</legend>
			<label><input type="radio" name="relo" value="Yes">Yes</label>
			<label><input type="radio" name="relo" value="No">No</label>
		</fieldset>`)
	qs, err := New(Options{}).QuestionTexts(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ question, source string }{
		{"Your first name", "label"},
		{"City of residence", "aria"},
		{"Are you willing to relocate?", "legend"},
	}
	if len(qs) != len(want) {
		t.Fatalf("questions: got %d (%+v), want %d", len(qs), qs, len(want))
	}
	for i, w := range want {
		if qs[i].Question != w.question || qs[i].Source != w.source {
			t.Errorf("[%d]: got (%q, %q), want (%q, %q)", i, qs[i].Question, qs[i].Source, w.question, w.source)
		}
	}
}

func TestDiagnosticsPageNotReady(t *testing.T) {
	c := New(Options{})
	if _, err := c.DescribeFields(context.Background(), fakeDoc{}); err != ErrPageNotReady {
		t.Errorf("DescribeFields: got %v, want ErrPageNotReady", err)
	}
	if _, err := c.QuestionTexts(context.Background(), nil); err != ErrPageNotReady {
		t.Errorf("QuestionTexts: got %v, want ErrPageNotReady", err)
	}
}

func TestDumpProfile(t *testing.T) {
	c := New(Options{Coordinator: &host.Static{Profile: profile.Profile{
		"personalInfo": map[string]any{"firstName": "Jane"},
	}}})
	d := c.DumpProfile(context.Background())
	if d.Source != "coordinator" {
		t.Errorf("source: got %q, want coordinator", d.Source)
	}
	if d.Values[field.SlotFirstName] != "Jane" {
		t.Errorf("firstName: got %q", d.Values[field.SlotFirstName])
	}
	if len(d.Values) != len(field.AllSlots()) {
		t.Errorf("values: got %d, want %d", len(d.Values), len(field.AllSlots()))
	}

	d = New(Options{Coordinator: &host.Static{}}).DumpProfile(context.Background())
	if d.Source != "minimal" {
		t.Errorf("source without profile: got %q, want minimal", d.Source)
	}
	if d.Values[field.SlotCountry] != "United States" {
		t.Errorf("country: got %q", d.Values[field.SlotCountry])
	}
}
