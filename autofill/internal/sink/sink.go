// Package sink defines output backends for fill reports.
package sink

import (
	"context"

	"github.com/hazyhaar/jobfill/autofill/field"
)

// Sink is the output interface. Implementations deliver run reports to
// different backends (stdout, webhook, run history, in-process callback).
type Sink interface {
	Send(ctx context.Context, rep field.Report) error
	Close() error
}

// Discard drops every report.
type Discard struct{}

func (Discard) Send(context.Context, field.Report) error { return nil }
func (Discard) Close() error                             { return nil }
