package autofill

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/dom"
	"github.com/hazyhaar/jobfill/autofill/internal/htmldom"
	"github.com/hazyhaar/jobfill/enrich"
	"github.com/hazyhaar/jobfill/host"
	"github.com/hazyhaar/jobfill/profile"
)

type recorder struct {
	mu       sync.Mutex
	progress [][2]int
	success  [][2]int
	failures []string
	reports  []field.Report
}

func (r *recorder) Progress(_ context.Context, done, total int) {
	r.mu.Lock()
	r.progress = append(r.progress, [2]int{done, total})
	r.mu.Unlock()
}

func (r *recorder) Success(_ context.Context, filled, total int) {
	r.mu.Lock()
	r.success = append(r.success, [2]int{filled, total})
	r.mu.Unlock()
}

func (r *recorder) Failure(_ context.Context, msg string) {
	r.mu.Lock()
	r.failures = append(r.failures, msg)
	r.mu.Unlock()
}

func (r *recorder) sink() Sink {
	return NewCallbackSink(func(_ context.Context, rep field.Report) error {
		r.mu.Lock()
		r.reports = append(r.reports, rep)
		r.mu.Unlock()
		return nil
	})
}

func page(t *testing.T, body string) *htmldom.Document {
	t.Helper()
	d, err := htmldom.ParseString("<html><body>"+body+"</body></html>", "https://jobs.example.com/apply")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func controller(p profile.Profile, rec *recorder) *Controller {
	opts := Options{
		Coordinator: &host.Static{Profile: p},
		FieldDelay:  time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
		NewID:       func() string { return "run-1" },
	}
	if rec != nil {
		opts.Indicator = rec
		opts.Sink = rec.sink()
	}
	return New(opts)
}

func TestScenarioTextField(t *testing.T) {
	d := page(t, `<input name="first_name">`)
	rec := &recorder{}
	c := controller(profile.Profile{"personalInfo": map[string]any{"firstName": "Jane"}}, rec)

	run, err := c.Trigger(context.Background(), d)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if run.Phase != field.PhaseComplete || run.Total != 1 || run.Filled != 1 {
		t.Fatalf("run: got %s %d/%d", run.Phase, run.Filled, run.Total)
	}
	res := run.Results[0]
	if res.Slot != field.SlotFirstName || res.Value != "Jane" {
		t.Errorf("result: got slot %q value %q", res.Slot, res.Value)
	}
	els, _ := d.QueryAll(`input[name="first_name"]`)
	if els[0].Value() != "Jane" {
		t.Errorf("DOM value: got %q", els[0].Value())
	}
	if len(rec.reports) != 1 || rec.reports[0].RunID != "run-1" || rec.reports[0].SuccessRate != 1 {
		t.Errorf("reports: got %+v", rec.reports)
	}
	if len(rec.success) != 1 || rec.success[0] != [2]int{1, 1} {
		t.Errorf("success banner: got %v", rec.success)
	}
}

func TestScenarioRadioGroup(t *testing.T) {
	d := page(t, `
		<fieldset>
			<legend>Are you willing to relocate?</legend>
			<label><input type="radio" name="relocate" value="Yes"> Yes</label>
			<label><input type="radio" name="relocate" value="No"> No</label>
		</fieldset>`)
	c := controller(profile.Profile{}, nil)

	for i := 0; i < 2; i++ {
		run, err := c.Trigger(context.Background(), d)
		if err != nil {
			t.Fatal(err)
		}
		if run.Total != 1 || run.Filled != 1 {
			t.Fatalf("run %d: got %d/%d", i, run.Filled, run.Total)
		}
		if run.Results[0].Slot != field.SlotWillingToRelocate {
			t.Errorf("slot: got %q", run.Results[0].Slot)
		}
		members, _ := d.QueryAll(`input[name="relocate"]`)
		if !members[0].Checked() || members[1].Checked() {
			t.Errorf("run %d: checked yes=%v no=%v", i, members[0].Checked(), members[1].Checked())
		}
	}
}

func TestScenarioSelectAlias(t *testing.T) {
	d := page(t, `<label for="st">State</label><select id="st" name="state"><option>Texas</option><option>California</option></select>`)
	c := controller(profile.Profile{"personalInfo": map[string]any{"state": "California (CA)"}}, nil)

	run, err := c.Trigger(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if run.Filled != 1 {
		t.Fatalf("filled: got %d, results %+v", run.Filled, run.Results)
	}
	if got := d.ByID("st").Value(); got != "California" {
		t.Errorf("selected: got %q, want California", got)
	}
}

func TestScenarioEmptyPage(t *testing.T) {
	rec := &recorder{}
	c := controller(profile.Profile{}, rec)

	run, err := c.Trigger(context.Background(), page(t, `<p>Nothing to see</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if run.Phase != field.PhaseComplete || run.Total != 0 || run.Filled != 0 {
		t.Errorf("run: got %s %d/%d", run.Phase, run.Filled, run.Total)
	}
	if len(rec.failures) != 0 {
		t.Errorf("error banner shown: %v", rec.failures)
	}
	if len(rec.success) != 1 || rec.success[0] != [2]int{0, 0} {
		t.Errorf("success: got %v", rec.success)
	}
}

func TestScenarioEnrichmentDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	body := `<input name="first_name"><input name="email">`
	p := profile.Profile{"personalInfo": map[string]any{"firstName": "Jane", "email": "jane@example.com"}}

	plain, err := controller(p, nil).Trigger(context.Background(), page(t, body))
	if err != nil {
		t.Fatal(err)
	}

	c := controller(p, nil)
	c.opts.Enricher = enrich.NewEnricher(enrich.NewClient(srv.URL), nil)
	enriched, err := c.Trigger(context.Background(), page(t, body))
	if err != nil {
		t.Fatalf("Trigger with enrichment down: %v", err)
	}
	if enriched.Filled != plain.Filled || enriched.Total != plain.Total || enriched.Phase != field.PhaseComplete {
		t.Errorf("got %d/%d %s, want %d/%d complete", enriched.Filled, enriched.Total, enriched.Phase, plain.Filled, plain.Total)
	}
}

func TestCoordinatorFailureUsesMinimalProfile(t *testing.T) {
	d := page(t, `<label for="c">Country</label><input id="c" name="country">`)
	c := New(Options{Coordinator: &host.Static{}})

	run, err := c.Trigger(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if run.Filled != 1 || d.ByID("c").Value() != "United States" {
		t.Errorf("got %d filled, value %q", run.Filled, d.ByID("c").Value())
	}
}

func TestCountersInvariant(t *testing.T) {
	d := page(t, `
		<input id="a" name="first_name">
		<input id="b" name="last_name">
		<input id="c" name="mystery_box">
		<input id="e" name="email">`)
	d.OnDispatch = func(el *htmldom.Element, ev string) error {
		if el.Attr("id") == "a" && ev == "change" {
			d.Remove(d.ByID("b"))
		}
		return nil
	}
	rec := &recorder{}
	c := controller(profile.Profile{"personalInfo": map[string]any{"firstName": "Jane", "lastName": "Doe"}}, rec)

	run, err := c.Trigger(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if run.Total != 4 {
		t.Fatalf("Total: got %d, want 4", run.Total)
	}
	want := map[string]field.Outcome{
		"first_name":  field.OutcomeFilled,
		"last_name":   field.OutcomeDetached,
		"mystery_box": field.OutcomeUnresolved,
		"email":       field.OutcomeEmpty,
	}
	for _, res := range run.Results {
		if res.Outcome != want[res.Name] {
			t.Errorf("%s: got %s, want %s", res.Name, res.Outcome, want[res.Name])
		}
	}
	if run.Filled != 1 || run.Failed != 1 || run.Unresolved != 2 {
		t.Errorf("counters: filled %d failed %d unresolved %d", run.Filled, run.Failed, run.Unresolved)
	}
	for _, p := range rec.progress {
		if p[1] != 4 || p[0] > p[1] {
			t.Errorf("progress %v breaks done <= total = 4", p)
		}
	}
	if len(rec.progress) != 4 {
		t.Errorf("progress calls: got %d, want 4", len(rec.progress))
	}
}

func TestTriggerRejectsReentry(t *testing.T) {
	d := page(t, `<input name="first_name"><input name="last_name">`)
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(Options{
		Coordinator: &host.Static{Profile: profile.Profile{}},
		FieldDelay:  time.Millisecond,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			close(started)
			<-release
			return nil
		},
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Trigger(context.Background(), d)
		done <- err
	}()
	<-started

	if c.Phase() != field.PhaseFilling {
		t.Errorf("phase: got %s, want filling", c.Phase())
	}
	if _, err := c.Trigger(context.Background(), d); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second trigger: got %v, want ErrRunInProgress", err)
	}
	if last := c.Last(); last == nil || last.Total != 2 {
		t.Errorf("Total during filling: got %+v", last)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if c.Phase() != field.PhaseComplete {
		t.Errorf("phase after run: got %s", c.Phase())
	}
	if _, err := c.Trigger(context.Background(), page(t, ``)); err != nil {
		t.Errorf("trigger after completion: %v", err)
	}
}

type fakeDoc struct {
	dom.Document
	ready bool
}

func (f fakeDoc) URL() string          { return "https://example.com" }
func (f fakeDoc) Ready() bool          { return f.ready }
func (f fakeDoc) HTML() (string, error) { return "", errors.New("no html") }
func (f fakeDoc) QueryAll(string) ([]dom.Element, error) {
	panic("document root gone")
}

func TestTriggerPageNotReady(t *testing.T) {
	rec := &recorder{}
	c := controller(profile.Profile{}, rec)

	_, err := c.Trigger(context.Background(), fakeDoc{ready: false})
	if !errors.Is(err, ErrPageNotReady) {
		t.Fatalf("got %v, want ErrPageNotReady", err)
	}
	if c.Phase() != field.PhaseIdle {
		t.Errorf("phase: got %s, want idle", c.Phase())
	}
	if len(rec.failures) != 1 || len(rec.reports) != 0 {
		t.Errorf("failures %v reports %d", rec.failures, len(rec.reports))
	}
}

func TestTriggerDiscoveryFault(t *testing.T) {
	rec := &recorder{}
	c := controller(profile.Profile{}, rec)

	run, err := c.Trigger(context.Background(), fakeDoc{ready: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if run == nil || run.Phase != field.PhaseError || run.Err == "" {
		t.Fatalf("run: got %+v", run)
	}
	if len(rec.failures) != 1 || len(rec.success) != 0 {
		t.Errorf("banners: failures %v success %v", rec.failures, rec.success)
	}
	if len(rec.reports) != 1 || rec.reports[0].Phase != field.PhaseError {
		t.Errorf("reports: got %+v", rec.reports)
	}
	if _, err := c.Trigger(context.Background(), page(t, ``)); err != nil {
		t.Errorf("trigger after error: %v", err)
	}
}

func TestBannerShownBeforeReportDelivery(t *testing.T) {
	tests := []struct {
		name string
		doc  dom.Document
	}{
		{"complete", page(t, `<input name="first_name">`)},
		{"discovery fault", fakeDoc{ready: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			var bannersAtSend int
			c := New(Options{
				Coordinator: &host.Static{Profile: profile.Profile{}},
				Sleep:       func(context.Context, time.Duration) error { return nil },
				Indicator:   rec,
				Sink: NewCallbackSink(func(context.Context, field.Report) error {
					rec.mu.Lock()
					bannersAtSend = len(rec.success) + len(rec.failures)
					rec.mu.Unlock()
					return nil
				}),
			})
			c.Trigger(context.Background(), tt.doc)
			if bannersAtSend != 1 {
				t.Errorf("banners shown when the report was sent: got %d, want 1", bannersAtSend)
			}
		})
	}
}

func TestFieldDelayStagger(t *testing.T) {
	var waits []time.Duration
	c := New(Options{
		Coordinator: &host.Static{Profile: profile.Profile{}},
		FieldDelay:  50 * time.Millisecond,
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	})
	if _, err := c.Trigger(context.Background(), page(t, `<input name="a1"><input name="a2"><input name="a3">`)); err != nil {
		t.Fatal(err)
	}
	if len(waits) != 2 || waits[0] != 50*time.Millisecond {
		t.Errorf("waits: got %v, want two of 50ms", waits)
	}
}

func TestFieldDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Options{
		Coordinator: &host.Static{Profile: profile.Profile{}},
		FieldDelay:  time.Millisecond,
	})
	run, err := c.Trigger(ctx, page(t, `<input name="a1"><input name="a2">`))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if run.Phase != field.PhaseError || run.Total != 2 || len(run.Results) != 1 {
		t.Errorf("run: got %s total %d results %d", run.Phase, run.Total, len(run.Results))
	}
}
