package field

import "time"

// Phase is the run controller state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseDiscovering Phase = "discovering"
	PhaseFilling     Phase = "filling"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
)

// Active reports whether a run in this phase blocks a new trigger.
func (p Phase) Active() bool { return p == PhaseDiscovering || p == PhaseFilling }

// Outcome is what happened to a single discovered field.
type Outcome string

const (
	OutcomeFilled     Outcome = "filled"
	OutcomeUnresolved Outcome = "unresolved" // no slot matched
	OutcomeEmpty      Outcome = "empty"      // slot matched, profile value empty
	OutcomeNoMatch    Outcome = "no_match"   // no option/member accepted the value
	OutcomeDetached   Outcome = "detached"   // element removed by the page
	OutcomeFailed     Outcome = "failed"     // contained per-field fault
)

// Result records the pipeline for one field.
type Result struct {
	Index    int     `json:"index"`
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name,omitempty"`
	ID       string  `json:"id,omitempty"`
	Question string  `json:"question,omitempty"`
	Slot     Slot    `json:"slot,omitempty"`
	Rule     string  `json:"rule,omitempty"`
	Value    string  `json:"value,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Error    string  `json:"error,omitempty"`
}

// Run is the explicit state of one discovery-fill-report cycle.
// It is owned by the controller that created it; callers receive copies.
type Run struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Platform   string    `json:"platform"`
	Phase      Phase     `json:"phase"`
	Total      int       `json:"total"`
	Filled     int       `json:"filled"`
	Unresolved int       `json:"unresolved"`
	Failed     int       `json:"failed"`
	Results    []Result  `json:"results,omitempty"`
	Err        string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Record appends a field result and updates the counters.
func (r *Run) Record(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeFilled:
		r.Filled++
	case OutcomeUnresolved, OutcomeEmpty, OutcomeNoMatch:
		r.Unresolved++
	case OutcomeDetached, OutcomeFailed:
		r.Failed++
	}
}

// SuccessRate is Filled/Total, 0 for an empty run.
func (r *Run) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Filled) / float64(r.Total)
}

// Clone returns a deep copy.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	c.Results = append([]Result(nil), r.Results...)
	return &c
}

// Report is the completion summary emitted to sinks and persisted.
type Report struct {
	RunID       string    `json:"run_id"`
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	Phase       Phase     `json:"phase"`
	Total       int       `json:"total"`
	Filled      int       `json:"filled"`
	Unresolved  int       `json:"unresolved"`
	Failed      int       `json:"failed"`
	SuccessRate float64   `json:"success_rate"`
	Error       string    `json:"error,omitempty"`
	Results     []Result  `json:"results,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Report builds the completion summary for r.
func (r *Run) Report() Report {
	return Report{
		RunID:       r.ID,
		URL:         r.URL,
		Platform:    r.Platform,
		Phase:       r.Phase,
		Total:       r.Total,
		Filled:      r.Filled,
		Unresolved:  r.Unresolved,
		Failed:      r.Failed,
		SuccessRate: r.SuccessRate(),
		Error:       r.Err,
		Results:     append([]Result(nil), r.Results...),
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

// Info is the diagnostic attribute dump of one discovered field.
type Info struct {
	Index       int     `json:"index"`
	Tag         string  `json:"tag"`
	Type        string  `json:"type,omitempty"`
	Kind        Kind    `json:"kind"`
	Name        string  `json:"name,omitempty"`
	ID          string  `json:"id,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	AriaLabel   string  `json:"aria_label,omitempty"`
	Title       string  `json:"title,omitempty"`
	Class       string  `json:"class,omitempty"`
	Value       string  `json:"value,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Visible     bool    `json:"visible"`
	Question    string  `json:"question,omitempty"`
	Slot        Slot    `json:"slot,omitempty"`
	Rule        string  `json:"rule,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}
