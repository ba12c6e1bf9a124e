package enrich

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/jobfill/profile"
)

// maxJobText bounds the page text sent for analysis.
const maxJobText = 20000

// Enricher merges service answers into a profile. Every step is optional:
// a failed step is logged and skipped, and a failed health check returns
// the profile untouched.
type Enricher struct {
	Client *Client
	Logger *slog.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(c *Client, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{Client: c, Logger: logger}
}

// Enrich returns an enriched copy of p. platform is the detected ATS and
// pageText the job description visible on the page, both possibly empty.
// The error is non-nil only when the service is unreachable; the returned
// profile is always usable.
func (e *Enricher) Enrich(ctx context.Context, p profile.Profile, platform, pageText string) (profile.Profile, error) {
	if _, err := e.Client.Health(ctx); err != nil {
		e.Logger.Warn("enrich: health check failed", "error", err)
		return p, err
	}
	out := p.Clone()

	if text := p.String("documents.resumeText"); text != "" {
		data, err := e.Client.ProcessResume(ctx, text)
		if err != nil {
			e.Logger.Warn("enrich: process resume failed", "error", err)
		} else {
			// Stored values win over parsed ones.
			out = profile.Merge(profile.FromResume(data), out)
		}
	}

	if platform != "" && platform != "generic" {
		data, err := e.Client.FormData(ctx, platform)
		if err != nil {
			e.Logger.Warn("enrich: form data failed", "platform", platform, "error", err)
		} else {
			out = profile.Merge(profile.FromFormData(data), out)
		}
	}

	analysed := false
	if text := strings.TrimSpace(pageText); text != "" {
		text = truncate(text, maxJobText)
		data, err := e.Client.AnalyzeJob(ctx, text)
		if err != nil {
			e.Logger.Warn("enrich: analyze job failed", "error", err)
		} else {
			out.Set("documents.jobAnalysis", data)
			analysed = true
		}
	}

	if analysed && out.String("documents.coverLetter") == "" && out.String("applicationQuestions.coverLetter") == "" {
		letter, err := e.Client.GenerateContent(ctx, "cover_letter")
		if err != nil {
			e.Logger.Warn("enrich: cover letter failed", "error", err)
		} else if letter != "" {
			out.Set("documents.coverLetter", letter)
		}
	}
	return out, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
