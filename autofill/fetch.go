package autofill

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/jobfill/autofill/internal/fetcher"
)

// Fetched is a page acquired without a browser.
type Fetched struct {
	URL  string
	HTML []byte
	// Remote is true for http(s) targets.
	Remote bool
	// Sufficient is true when the static HTML already carries form
	// controls and is not a client-rendered shell.
	Sufficient bool
	Controls   int
}

// Fetch loads target, an http(s) URL or a local HTML file.
func Fetch(ctx context.Context, target string, logger *slog.Logger) (*Fetched, error) {
	f := &fetcher.Fetcher{Logger: logger}
	p, err := f.Load(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Fetched{
		URL:        p.URL,
		HTML:       p.HTML,
		Remote:     p.Remote,
		Sufficient: p.Sufficient,
		Controls:   p.Controls,
	}, nil
}
