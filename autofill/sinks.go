package autofill

import (
	"context"
	"io"
	"log/slog"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/config"
	"github.com/hazyhaar/jobfill/autofill/internal/sink"
)

// Sink is the output interface for run reports.
type Sink = sink.Sink

type discardSink = sink.Discard

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry. Filled values are
// posted only when includeValues is set.
func NewWebhookSink(url string, retries int, includeValues bool, logger *slog.Logger) Sink {
	return sink.NewWebhook(url,
		sink.WithWebhookRetries(retries),
		sink.WithWebhookValues(includeValues),
		sink.WithWebhookLogger(logger))
}

// NewCallbackSink creates an in-process sink, for run history or embedders.
func NewCallbackSink(fn func(ctx context.Context, rep field.Report) error) Sink {
	return sink.NewCallback(fn)
}

// NewRouter fans reports out to every sink.
func NewRouter(logger *slog.Logger, sinks ...Sink) Sink {
	return sink.NewRouter(logger, sinks...)
}

// SinksFromConfig builds the sinks a configuration names.
func SinksFromConfig(cfgs []config.SinkConfig, logger *slog.Logger) []Sink {
	var out []Sink
	for _, sc := range cfgs {
		switch sc.Type {
		case "stdout":
			out = append(out, NewStdoutSink(nil))
		case "webhook":
			out = append(out, NewWebhookSink(sc.URL, sc.Retries, sc.IncludeValues, logger))
		}
	}
	return out
}
