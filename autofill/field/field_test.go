package field

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		tag, typ string
		want     Kind
	}{
		{"input", "", KindText},
		{"input", "text", KindText},
		{"INPUT", "EMAIL", KindEmail},
		{"input", "tel", KindPhone},
		{"input", "url", KindURL},
		{"input", "number", KindNumber},
		{"input", "date", KindDate},
		{"input", "checkbox", KindCheckbox},
		{"input", "radio", KindRadio},
		{"input", "color", KindText},
		{"input", "hidden", KindText},
		{"textarea", "", KindTextarea},
		{"select", "", KindSelect},
	}
	for _, tt := range tests {
		if got := Classify(tt.tag, tt.typ); got != tt.want {
			t.Errorf("Classify(%q, %q): got %q, want %q", tt.tag, tt.typ, got, tt.want)
		}
	}
}

func TestSlotsUnique(t *testing.T) {
	seen := map[Slot]bool{}
	for _, s := range AllSlots() {
		if seen[s] {
			t.Errorf("duplicate slot %q", s)
		}
		seen[s] = true
		if !Known(s) {
			t.Errorf("Known(%q) = false", s)
		}
	}
	if Known("notASlot") {
		t.Error("Known(notASlot) = true")
	}
}

func TestRunRecord(t *testing.T) {
	r := &Run{Total: 4}
	r.Record(Result{Outcome: OutcomeFilled})
	r.Record(Result{Outcome: OutcomeUnresolved})
	r.Record(Result{Outcome: OutcomeNoMatch})
	r.Record(Result{Outcome: OutcomeFailed})

	if r.Filled != 1 || r.Unresolved != 2 || r.Failed != 1 {
		t.Errorf("counters: got filled=%d unresolved=%d failed=%d", r.Filled, r.Unresolved, r.Failed)
	}
	if got := r.SuccessRate(); got != 0.25 {
		t.Errorf("SuccessRate: got %v, want 0.25", got)
	}

	rep := r.Report()
	r.Results[0].Value = "changed"
	if rep.Results[0].Value == "changed" {
		t.Error("Report shares results with run")
	}
}

func TestSuccessRateEmpty(t *testing.T) {
	r := &Run{}
	if r.SuccessRate() != 0 {
		t.Errorf("SuccessRate: got %v, want 0", r.SuccessRate())
	}
}
