package profile

import (
	"testing"

	"github.com/hazyhaar/jobfill/autofill/field"
)

func TestValueForTotal(t *testing.T) {
	for _, p := range []Profile{nil, {}, Minimal()} {
		for _, s := range field.AllSlots() {
			if _, ok := ValueFor(s, p); !ok {
				t.Errorf("ValueFor(%q): no accessor", s)
			}
		}
	}
	if len(accessors) != len(field.AllSlots()) {
		t.Errorf("accessors: got %d, want %d", len(accessors), len(field.AllSlots()))
	}
}

func TestValueForUnknownSlot(t *testing.T) {
	if v, ok := ValueFor("noSuchSlot", Profile{}); ok || v != "" {
		t.Errorf("got (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestValueForProfileAndDefaults(t *testing.T) {
	p := Profile{
		"personalInfo": map[string]any{"firstName": "Jane", "lastName": "Doe"},
		"preferences":  map[string]any{"requireSponsorship": true},
		"skills": map[string]any{
			"technical":   []any{"Go", "SQL"},
			"programming": []any{"go", "Python"},
		},
		"experience": map[string]any{"yearsExperience": 7.0},
	}
	tests := []struct {
		slot field.Slot
		want string
	}{
		{field.SlotFirstName, "Jane"},
		{field.SlotFullName, "Jane Doe"},
		{field.SlotRequireSponsorship, "Yes"},
		{field.SlotWillingToRelocate, "Yes"},
		{field.SlotSkills, "Go, SQL, Python"},
		{field.SlotYearsExperience, "7"},
		{field.SlotEmail, ""},
	}
	for _, tt := range tests {
		got, ok := ValueFor(tt.slot, p)
		if !ok || got != tt.want {
			t.Errorf("ValueFor(%q): got %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestLookupAndSet(t *testing.T) {
	p := Profile{}
	p.Set("experience.positions", []any{map[string]any{"title": "Engineer"}})
	if got := p.String("experience.positions.0.title"); got != "Engineer" {
		t.Errorf("String: got %q, want Engineer", got)
	}
	if _, ok := p.Lookup("experience.positions.3.title"); ok {
		t.Error("out-of-range index should miss")
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	base := Profile{"personalInfo": map[string]any{"firstName": "Jane", "email": "j@x.io"}}
	over := Profile{"personalInfo": map[string]any{"firstName": "Janet", "email": ""}}

	got := Merge(base, over)
	if got.String("personalInfo.firstName") != "Janet" {
		t.Errorf("merged firstName: got %q", got.String("personalInfo.firstName"))
	}
	if got.String("personalInfo.email") != "j@x.io" {
		t.Errorf("empty value must not overwrite: got %q", got.String("personalInfo.email"))
	}
	if base.String("personalInfo.firstName") != "Jane" {
		t.Error("Merge mutated dst")
	}
}

func TestFromResume(t *testing.T) {
	p := FromResume(map[string]any{
		"contact": map[string]any{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "zip": "02139"},
		"experience": []any{
			map[string]any{"title": "Analyst", "company": "Engines Ltd"},
		},
		"education": []any{map[string]any{"degree": "BSc", "school": "London", "field": "Mathematics", "year": 1835.0}},
		"skills":    map[string]any{"technical": []any{"Computation"}},
		"summary":   "Mathematician",
	})
	checks := map[field.Slot]string{
		field.SlotFirstName:      "Ada",
		field.SlotZipCode:        "02139",
		field.SlotCurrentTitle:   "Analyst",
		field.SlotCurrentCompany: "Engines Ltd",
		field.SlotMajor:          "Mathematics",
		field.SlotGraduationYear: "1835",
		field.SlotSkills:         "Computation",
	}
	for slot, want := range checks {
		if got, _ := ValueFor(slot, p); got != want {
			t.Errorf("%s: got %q, want %q", slot, got, want)
		}
	}
}

func TestKeys(t *testing.T) {
	p := Profile{"a": map[string]any{"b": "x", "c": []any{"y"}}}
	keys := p.Keys()
	if len(keys) != 2 || keys[0] != "a.b" || keys[1] != "a.c.0" {
		t.Errorf("Keys: got %v", keys)
	}
}

func TestFromFormData(t *testing.T) {
	p := FromFormData(map[string]any{
		"firstName": "Ada",
		"zip":       "02139",
		"company":   "Engines Ltd",
		"skills":    "Go, SQL",
		"state":     "",
		"unknown":   "x",
	})
	checks := map[field.Slot]string{
		field.SlotFirstName:      "Ada",
		field.SlotZipCode:        "02139",
		field.SlotCurrentCompany: "Engines Ltd",
		field.SlotSkills:         "Go, SQL",
	}
	for slot, want := range checks {
		if got, _ := ValueFor(slot, p); got != want {
			t.Errorf("%s: got %q, want %q", slot, got, want)
		}
	}
	if _, ok := p["unknown"]; ok {
		t.Error("unknown key copied")
	}
	if _, ok := p.Lookup("personalInfo.state"); ok {
		t.Error("empty value copied")
	}
}
