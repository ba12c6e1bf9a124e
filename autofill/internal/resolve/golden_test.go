package resolve

import (
	"testing"

	"github.com/hazyhaar/jobfill/autofill/field"
)

// The cases below pin layer precedence. Each one is ambiguous enough that
// reordering the layers would change the winning slot or rule.
func TestGoldenPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		kind     field.Kind
		question string
		group    string
		platform string
		attrs    map[string]string
		slot     field.Slot
		rule     string
		layer    Layer
	}{
		{
			name:     "application beats common on automation questions",
			question: "What is the biggest automation project with AI you have rolled out?",
			slot:     field.SlotAutomationAI, rule: "automation_ai", layer: LayerApplication,
		},
		{
			name:     "common beats context-aware years of experience",
			question: "How many years of experience do you have with test automation?",
			slot:     field.SlotAutomationExperience, rule: "automation_experience", layer: LayerCommon,
		},
		{
			name:     "application team management beats common teamwork",
			question: "Tell us how you manage a team that works remotely",
			slot:     field.SlotTeamManagement, rule: "team_management", layer: LayerApplication,
		},
		{
			name:     "context-aware beats exact identifiers",
			question: "Are you willing to relocate?",
			attrs:    map[string]string{"name": "first_name"},
			slot:     field.SlotWillingToRelocate, rule: "relocation", layer: LayerContext,
		},
		{
			name:     "sponsorship need wins over work authorization wording",
			question: "Will you now or in the future require sponsorship for work authorization?",
			slot:     field.SlotRequireSponsorship, rule: "sponsorship", layer: LayerContext,
		},
		{
			name:     "authorized without visa sponsorship is work authorization",
			question: "Are you legally authorized to work in the United States without visa sponsorship?",
			slot:     field.SlotWorkAuthorization, rule: "work_authorization", layer: LayerContext,
		},
		{
			name:     "authorized without requiring sponsorship is work authorization",
			question: "Are you authorized to work in the US without requiring sponsorship?",
			slot:     field.SlotWorkAuthorization, rule: "work_authorization", layer: LayerContext,
		},
		{
			name:     "radio group authorized without sponsorship",
			kind:     field.KindRadio,
			group:    "Are you legally authorized to work in the United States without visa sponsorship?",
			question: "Yes",
			attrs:    map[string]string{"name": "q_9", "value": "Yes"},
			slot:     field.SlotWorkAuthorization, rule: "work_authorization", layer: LayerContext,
		},
		{
			name:     "platform table beats exact patterns",
			platform: "workday",
			attrs:    map[string]string{"data-automation-id": "legalNameSection_firstName", "id": "input-4"},
			slot:     field.SlotFirstName, rule: "workday.first_name", layer: LayerContext,
		},
		{
			name:  "platform table ignored on other hosts",
			attrs: map[string]string{"data-automation-id": "legalNameSection_firstName"},
			slot:  field.SlotFirstName, rule: "first_name", layer: LayerExact,
		},
		{
			name:  "exact email listed before first name",
			attrs: map[string]string{"name": "email", "placeholder": "First name"},
			slot:  field.SlotEmail, rule: "email", layer: LayerExact,
		},
		{
			name:  "exact beats fuzzy on first name",
			attrs: map[string]string{"name": "first_name"},
			slot:  field.SlotFirstName, rule: "first_name", layer: LayerExact,
		},
		{
			name:  "ethnicity before city",
			attrs: map[string]string{"name": "ethnicity"},
			slot:  field.SlotEthnicity, rule: "ethnicity", layer: LayerExact,
		},
		{
			name:  "full name is not mistaken for last name",
			attrs: map[string]string{"id": "fullName"},
			slot:  field.SlotFullName, rule: "full_name", layer: LayerExact,
		},
		{
			name:  "fuzzy abbreviation",
			attrs: map[string]string{"name": "fname"},
			slot:  field.SlotFirstName, rule: "first", layer: LayerFuzzy,
		},
		{
			name:  "fuzzy last before first",
			attrs: map[string]string{"name": "last"},
			slot:  field.SlotLastName, rule: "last", layer: LayerFuzzy,
		},
		{
			name:     "fuzzy location word",
			platform: "greenhouse",
			attrs:    map[string]string{"name": "candidate-location"},
			slot:     field.SlotCity, rule: "city", layer: LayerFuzzy,
		},
		{
			name:     "radio group text through context-aware only",
			kind:     field.KindRadio,
			group:    "Do you require visa sponsorship?",
			question: "Yes",
			attrs:    map[string]string{"name": "q_17", "value": "Yes"},
			slot:     field.SlotRequireSponsorship, rule: "sponsorship", layer: LayerContext,
		},
		{
			name:     "radio falls back to option identifiers",
			kind:     field.KindRadio,
			group:    "Please select one",
			question: "",
			attrs:    map[string]string{"name": "gender"},
			slot:     field.SlotGender, rule: "gender", layer: LayerExact,
		},
	}
	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := tt.kind
			if kind == "" {
				kind = field.KindText
			}
			m, ok := r.Resolve(NewInput(kind, tt.question, tt.group, tt.platform, tt.attrs))
			if !ok {
				t.Fatalf("no match, want %s/%s", tt.slot, tt.rule)
			}
			if m.Slot != tt.slot || m.Rule != tt.rule || m.Layer != tt.layer {
				t.Errorf("got %s/%s (%s), want %s/%s (%s)", m.Slot, m.Rule, m.Layer, tt.slot, tt.rule, tt.layer)
			}
		})
	}
}

func TestRadioGroupMatchFlag(t *testing.T) {
	r := New()
	m, ok := r.Resolve(NewInput(field.KindRadio, "", "Are you willing to relocate?", "", map[string]string{"name": "relocate"}))
	if !ok || !m.Group {
		t.Fatalf("got %+v ok=%v, want group match", m, ok)
	}

	// Application clusters are not consulted in the group pre-step.
	m, ok = r.Resolve(NewInput(field.KindRadio, "", "Tell us how you manage a team", "", map[string]string{"name": "q9"}))
	if ok {
		t.Errorf("got %+v, want no match", m)
	}
}

func TestUnresolved(t *testing.T) {
	if m, ok := New().Resolve(NewInput(field.KindText, "", "", "", map[string]string{"name": "xyz123"})); ok {
		t.Errorf("got %+v, want no match", m)
	}
}
