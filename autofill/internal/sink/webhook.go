package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/jobfill/autofill/field"
)

// errPermanent marks a rejection that retrying cannot fix.
var errPermanent = errors.New("webhook: rejected")

// Webhook POSTs reports to a URL. Transport errors, 5xx, 408 and 429 are
// retried with doubling backoff; other 4xx answers stop immediately.
//
// Filled values are applicant data, so they are stripped from the posted
// report unless WithWebhookValues(true) is set.
type Webhook struct {
	url        string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
	values     bool
	logger     *slog.Logger
}

// WebhookOption configures a Webhook sink.
type WebhookOption func(*Webhook)

// WithWebhookRetries sets how many times a failed post is repeated. Default: 3.
func WithWebhookRetries(n int) WebhookOption {
	return func(w *Webhook) { w.maxRetries = n }
}

// WithWebhookBackoff sets the first retry delay. Default: 1s.
func WithWebhookBackoff(d time.Duration) WebhookOption {
	return func(w *Webhook) { w.backoff = d }
}

// WithWebhookClient replaces the HTTP client.
func WithWebhookClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

// WithWebhookValues keeps filled values in posted reports.
func WithWebhookValues(keep bool) WebhookOption {
	return func(w *Webhook) { w.values = keep }
}

// WithWebhookLogger sets a custom logger.
func WithWebhookLogger(l *slog.Logger) WebhookOption {
	return func(w *Webhook) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWebhook creates a Webhook sink posting to url.
func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		url:        url,
		client:     &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Webhook) Send(ctx context.Context, rep field.Report) error {
	if !w.values {
		rep = redact(rep)
	}
	body, err := json.Marshal(envelope{Type: "report", Data: rep})
	if err != nil {
		return fmt.Errorf("webhook: encode report %s: %w", rep.RunID, err)
	}

	delay := w.backoff
	var last error
	for attempt := 0; ; attempt++ {
		last = w.post(ctx, rep, body)
		if last == nil || errors.Is(last, errPermanent) {
			return last
		}
		if attempt >= w.maxRetries {
			break
		}
		w.logger.Warn("webhook: post failed", "run", rep.RunID, "attempt", attempt+1, "retry_in", delay, "error", last)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return fmt.Errorf("webhook: gave up after %d attempts: %w", w.maxRetries+1, last)
}

func (w *Webhook) post(ctx context.Context, rep field.Report, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Jobfill-Run", rep.RunID)
	req.Header.Set("X-Jobfill-Phase", string(rep.Phase))

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()

	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return fmt.Errorf("webhook: status %d", code)
	default:
		return fmt.Errorf("%w: status %d", errPermanent, code)
	}
}

func (w *Webhook) Close() error { return nil }

// redact returns rep with result values cleared.
func redact(rep field.Report) field.Report {
	if len(rep.Results) == 0 {
		return rep
	}
	res := make([]field.Result, len(rep.Results))
	for i, r := range rep.Results {
		r.Value = ""
		res[i] = r
	}
	rep.Results = res
	return rep
}
