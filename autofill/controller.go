// Package autofill drives one form-filling run over a page document:
// discovery, classification, question extraction, slot resolution,
// profile lookup and value injection, then a report to the sinks.
//
// A Controller is safe for concurrent use. It allows one run at a time;
// a trigger arriving while a run is discovering or filling is rejected.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/discover"
	"github.com/hazyhaar/jobfill/autofill/internal/dom"
	"github.com/hazyhaar/jobfill/autofill/internal/fill"
	"github.com/hazyhaar/jobfill/autofill/internal/question"
	"github.com/hazyhaar/jobfill/autofill/internal/resolve"
	"github.com/hazyhaar/jobfill/host"
	"github.com/hazyhaar/jobfill/idgen"
	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/resume"
)

var (
	// ErrRunInProgress rejects a trigger while a run is discovering or filling.
	ErrRunInProgress = errors.New("autofill: run in progress")
	// ErrPageNotReady rejects a trigger when the document root is unusable.
	ErrPageNotReady = errors.New("autofill: page not ready")
)

// Indicator is the on-page trigger affordance. Calls are best-effort.
type Indicator interface {
	Progress(ctx context.Context, done, total int)
	Success(ctx context.Context, filled, total int)
	Failure(ctx context.Context, msg string)
}

// Enricher upgrades a profile for the detected platform and the page's
// job text. It must always return a usable profile, even alongside an error.
type Enricher interface {
	Enrich(ctx context.Context, p profile.Profile, platform, pageText string) (profile.Profile, error)
}

// Options configures a Controller. Zero values use defaults.
type Options struct {
	Coordinator host.Coordinator
	Enricher    Enricher
	Indicator   Indicator
	Sink        Sink
	Logger      *slog.Logger

	// FieldDelay staggers fields: field i starts i*FieldDelay after the first.
	FieldDelay time.Duration
	// CoordinatorTimeout bounds each coordinator request. Default 5s.
	CoordinatorTimeout time.Duration
	// EnrichTimeout bounds the whole enrichment round trip. Default 30s.
	EnrichTimeout time.Duration

	QuestionMinLen int
	QuestionMaxLen int
	AncestorWalk   int

	// Sleep waits between fields; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
	// NewID names runs. Default: idgen.Default.
	NewID func() string
	Now   func() time.Time
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Sink == nil {
		o.Sink = discardSink{}
	}
	if o.CoordinatorTimeout <= 0 {
		o.CoordinatorTimeout = 5 * time.Second
	}
	if o.EnrichTimeout <= 0 {
		o.EnrichTimeout = 30 * time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	if o.NewID == nil {
		o.NewID = idgen.Default
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Controller owns the run state machine.
type Controller struct {
	opts     Options
	resolver *resolve.Resolver
	filler   *fill.Filler
	logger   *slog.Logger

	mu        sync.Mutex
	run       *field.Run
	indicator Indicator
}

// New creates a Controller.
func New(opts Options) *Controller {
	opts.defaults()
	return &Controller{
		opts:      opts,
		resolver:  resolve.New(),
		filler:    fill.New(opts.Logger),
		logger:    opts.Logger,
		indicator: opts.Indicator,
	}
}

// SetIndicator replaces the trigger affordance, for sessions that attach
// their overlay after the controller exists.
func (c *Controller) SetIndicator(ind Indicator) {
	c.mu.Lock()
	c.indicator = ind
	c.mu.Unlock()
}

// Phase is the state of the current or last run, idle before the first.
func (c *Controller) Phase() field.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return field.PhaseIdle
	}
	return c.run.Phase
}

// Last returns a copy of the current or last run, or nil.
func (c *Controller) Last() *field.Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run.Clone()
}

// Trigger runs discovery, filling and reporting over doc and returns the
// finished run. The returned error is ErrRunInProgress, ErrPageNotReady,
// or a fault outside per-field containment; in the last case the run is
// returned too, in PhaseError.
func (c *Controller) Trigger(ctx context.Context, doc dom.Document) (*field.Run, error) {
	c.mu.Lock()
	if c.run != nil && c.run.Phase.Active() {
		c.mu.Unlock()
		return nil, ErrRunInProgress
	}
	ind := c.indicator
	if doc == nil || !doc.Ready() {
		c.mu.Unlock()
		if ind != nil {
			ind.Failure(ctx, "Page not ready, try again in a moment")
		}
		return nil, ErrPageNotReady
	}
	run := &field.Run{
		ID:        c.opts.NewID(),
		URL:       doc.URL(),
		Phase:     field.PhaseDiscovering,
		StartedAt: c.opts.Now(),
	}
	c.run = run
	c.mu.Unlock()

	log := c.logger.With("run", run.ID, "url", run.URL)
	log.Info("autofill: run started")

	platform := c.platform(ctx, doc.URL())
	p := c.profile(ctx, doc, platform, log)
	c.update(func(r *field.Run) { r.Platform = platform })

	els, err := c.discover(doc)
	if err != nil {
		return c.fail(ctx, ind, log, err)
	}

	c.update(func(r *field.Run) {
		r.Total = len(els)
		if len(els) > 0 {
			r.Phase = field.PhaseFilling
		}
	})
	log.Info("autofill: discovery complete", "fields", len(els), "platform", platform)

	x := c.extractor(doc)
	for i, el := range els {
		if i > 0 && c.opts.FieldDelay > 0 {
			if err := c.opts.Sleep(ctx, c.opts.FieldDelay); err != nil {
				return c.fail(ctx, ind, log, fmt.Errorf("autofill: filling: %w", err))
			}
		}
		res := c.processField(ctx, doc, x, el, i, p, platform)
		if res.Outcome == field.OutcomeFailed || res.Outcome == field.OutcomeDetached {
			log.Warn("autofill: field failed", "index", i, "name", res.Name, "outcome", res.Outcome, "error", res.Error)
		} else {
			log.Debug("autofill: field", "index", i, "slot", res.Slot, "rule", res.Rule, "outcome", res.Outcome)
		}
		done := 0
		c.update(func(r *field.Run) {
			r.Record(res)
			done = len(r.Results)
		})
		if ind != nil {
			ind.Progress(ctx, done, len(els))
		}
	}

	final := c.finish(field.PhaseComplete, "")
	log.Info("autofill: run complete", "filled", final.Filled, "total", final.Total,
		"unresolved", final.Unresolved, "failed", final.Failed)
	if ind != nil {
		ind.Success(ctx, final.Filled, final.Total)
	}
	c.emit(ctx, final, log)
	return final, nil
}

func (c *Controller) update(fn func(r *field.Run)) {
	c.mu.Lock()
	fn(c.run)
	c.mu.Unlock()
}

// finish moves the run to a terminal phase and returns a copy.
func (c *Controller) finish(phase field.Phase, msg string) *field.Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.Phase = phase
	c.run.Err = msg
	c.run.FinishedAt = c.opts.Now()
	return c.run.Clone()
}

func (c *Controller) fail(ctx context.Context, ind Indicator, log *slog.Logger, err error) (*field.Run, error) {
	final := c.finish(field.PhaseError, err.Error())
	log.Error("autofill: run failed", "error", err)
	if ind != nil {
		ind.Failure(ctx, "Autofill failed: "+err.Error())
	}
	c.emit(ctx, final, log)
	return final, err
}

func (c *Controller) emit(ctx context.Context, run *field.Run, log *slog.Logger) {
	if err := c.opts.Sink.Send(ctx, run.Report()); err != nil {
		log.Warn("autofill: report delivery failed", "error", err)
	}
}

func (c *Controller) discover(doc dom.Document) (els []dom.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("autofill: discovery: panic: %v", r)
		}
	}()
	if !doc.Ready() {
		return nil, ErrPageNotReady
	}
	return discover.Discover(doc)
}

// processField runs the per-field pipeline. Faults stay inside the result.
func (c *Controller) processField(ctx context.Context, doc dom.Document, x *question.Extractor, el dom.Element, i int, p profile.Profile, platform string) (res field.Result) {
	res.Index = i
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = field.OutcomeFailed
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	res.Name, res.ID = el.Attr("name"), el.Attr("id")
	res.Kind = field.Classify(el.Tag(), el.Attr("type"))

	q, group := c.questions(doc, x, el, res.Kind)
	res.Question = q
	if group != "" {
		res.Question = group
	}

	m, ok := c.resolver.Resolve(resolve.InputFor(el, res.Kind, q, group, platform))
	if !ok {
		res.Outcome = field.OutcomeUnresolved
		return res
	}
	res.Slot, res.Rule = m.Slot, m.Rule

	value, known := profile.ValueFor(m.Slot, p)
	if !known {
		res.Outcome = field.OutcomeUnresolved
		return res
	}
	if value == "" {
		res.Outcome = field.OutcomeEmpty
		return res
	}
	res.Value = value

	out, err := c.filler.Fill(ctx, doc, el, res.Kind, value)
	res.Outcome = out
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func (c *Controller) questions(doc dom.Document, x *question.Extractor, el dom.Element, kind field.Kind) (q, group string) {
	q = x.Extract(el)
	if kind == field.KindRadio {
		group, _ = x.ExtractGroup(discover.RadioGroup(doc, el))
	}
	return q, group
}

// platform asks the coordinator, falling back to generic.
func (c *Controller) platform(ctx context.Context, pageURL string) string {
	if c.opts.Coordinator == nil {
		return host.MustDetector().Detect(pageURL)
	}
	cctx, cancel := context.WithTimeout(ctx, c.opts.CoordinatorTimeout)
	defer cancel()
	pl, err := c.opts.Coordinator.DetectPlatform(cctx, pageURL)
	if err != nil || pl == "" {
		c.logger.Warn("autofill: platform detection failed", "error", err)
		return host.Generic
	}
	return pl
}

// profile asks the coordinator, then the enricher. Each failure falls
// back to what is already in hand.
func (c *Controller) profile(ctx context.Context, doc dom.Document, platform string, log *slog.Logger) profile.Profile {
	p := c.storedProfile(ctx, log)
	if c.opts.Enricher == nil {
		return p
	}

	ectx, cancel := context.WithTimeout(ctx, c.opts.EnrichTimeout)
	defer cancel()
	enriched, err := c.opts.Enricher.Enrich(ectx, p, platform, pageText(doc))
	if err != nil {
		log.Warn("autofill: enrichment unavailable, using stored profile", "error", err)
		return p
	}
	if enriched == nil {
		return p
	}
	return enriched
}

func (c *Controller) storedProfile(ctx context.Context, log *slog.Logger) profile.Profile {
	if c.opts.Coordinator == nil {
		return profile.Minimal()
	}
	cctx, cancel := context.WithTimeout(ctx, c.opts.CoordinatorTimeout)
	defer cancel()
	p, err := c.opts.Coordinator.UserProfile(cctx)
	if err != nil || p == nil {
		log.Warn("autofill: no user profile, using minimal profile", "error", err)
		return profile.Minimal()
	}
	return p
}

// pageText is the page as Markdown, for job analysis. Empty on failure.
func pageText(doc dom.Document) string {
	h, err := doc.HTML()
	if err != nil {
		return ""
	}
	md, err := resume.Markdown(h, doc.URL())
	if err != nil {
		return ""
	}
	return md
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
