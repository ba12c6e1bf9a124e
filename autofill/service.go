package autofill

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/kit"
)

// RunLister reads persisted run reports, newest first.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]field.Report, error)
}

// Service exposes a Controller to the MCP and HTTP surfaces. Every call
// that needs a page asks Source for the current document.
type Service struct {
	ctl    *Controller
	src    Source
	runs   RunLister
	logger *slog.Logger
}

// NewService binds ctl to src. runs may be nil; the runs endpoint then
// answers with an empty list.
func NewService(ctl *Controller, src Source, runs RunLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ctl: ctl, src: src, runs: runs, logger: logger}
}

// Status is the controller phase and the last run, if any.
type Status struct {
	Phase field.Phase   `json:"phase"`
	Last  *field.Report `json:"last,omitempty"`
}

// TriggerResult is the report of a triggered run. Error is set when the
// run ended in the error phase.
type TriggerResult struct {
	Report field.Report `json:"report"`
	Error  string       `json:"error,omitempty"`
}

type runsRequest struct {
	Limit int `json:"limit,omitempty"`
}

func (s *Service) status(context.Context, any) (any, error) {
	st := Status{Phase: s.ctl.Phase()}
	if last := s.ctl.Last(); last != nil {
		rep := last.Report()
		st.Last = &rep
	}
	return st, nil
}

func (s *Service) trigger(ctx context.Context, _ any) (any, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	run, err := s.ctl.Trigger(ctx, doc)
	if run == nil {
		return nil, statusError(err)
	}
	res := TriggerResult{Report: run.Report()}
	if err != nil {
		res.Error = err.Error()
	}
	return res, nil
}

func (s *Service) fields(ctx context.Context, _ any) (any, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := s.ctl.DescribeFields(ctx, doc)
	return infos, statusError(err)
}

func (s *Service) questions(ctx context.Context, _ any) (any, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	qs, err := s.ctl.QuestionTexts(ctx, doc)
	return qs, statusError(err)
}

func (s *Service) profile(ctx context.Context, _ any) (any, error) {
	return s.ctl.DumpProfile(ctx), nil
}

func (s *Service) listRuns(ctx context.Context, req any) (any, error) {
	if s.runs == nil {
		return []field.Report{}, nil
	}
	limit := 0
	if r, ok := req.(*runsRequest); ok && r != nil {
		limit = r.Limit
	}
	reps, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if reps == nil {
		reps = []field.Report{}
	}
	return reps, nil
}

func (s *Service) document(ctx context.Context) (Document, error) {
	if s.src == nil {
		return nil, statusError(ErrPageNotReady)
	}
	doc, err := s.src.Document(ctx)
	if err != nil {
		return nil, statusError(err)
	}
	return doc, nil
}

// endpoint wraps op with the shared middleware chain.
func (s *Service) endpoint(name string, op kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.Logging(s.logger, name))(op)
}

// statusError attaches the HTTP status the controller errors map to.
func statusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRunInProgress):
		return &kit.HTTPError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, ErrPageNotReady):
		return &kit.HTTPError{Code: http.StatusServiceUnavailable, Err: err}
	}
	return err
}
