// Package enrich talks to the optional enrichment service that parses
// resumes, analyses job descriptions and drafts cover letters, and merges
// its answers into the applicant profile.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const maxResponse = 4 << 20

// Health is the /health answer.
type Health struct {
	Status          string `json:"status"`
	LLMAvailable    bool   `json:"llm_available"`
	ResumeProcessed bool   `json:"resume_processed"`
}

// Envelope is the response shape of every POST endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Method  string          `json:"method,omitempty"`
}

// Client calls the enrichment service over HTTP. String values in
// responses are stripped of markup before they reach the profile.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
	policy  *bluemonday.Policy
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithBreaker replaces the circuit breaker.
func WithBreaker(b *Breaker) Option { return func(cl *Client) { cl.breaker = b } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(cl *Client) { cl.logger = l } }

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		breaker: NewBreaker(),
		policy:  bluemonday.StrictPolicy(),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Breaker exposes the client's breaker.
func (c *Client) Breaker() *Breaker { return c.breaker }

// Health checks the service.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return h, fmt.Errorf("enrich: health: decode: %w", err)
	}
	if h.Status != "healthy" {
		return h, fmt.Errorf("enrich: health: status %q", h.Status)
	}
	return h, nil
}

// ProcessResume sends raw resume text and returns the structured resume
// (contact, summary, experience, education, skills).
func (c *Client) ProcessResume(ctx context.Context, text string) (map[string]any, error) {
	return c.object(ctx, "/process_resume", map[string]string{"resume_text": text})
}

// AnalyzeJob sends a job description and returns the extracted requirements.
func (c *Client) AnalyzeJob(ctx context.Context, text string) (map[string]any, error) {
	return c.object(ctx, "/analyze_job", map[string]string{"job_text": text})
}

// FormData asks the service for platform-specific field data.
func (c *Client) FormData(ctx context.Context, platform string) (map[string]any, error) {
	return c.object(ctx, "/get_form_data", map[string]string{"platform": platform})
}

// GenerateContent asks for tailored content, "cover_letter" by default.
func (c *Client) GenerateContent(ctx context.Context, contentType string) (string, error) {
	if contentType == "" {
		contentType = "cover_letter"
	}
	data, err := c.post(ctx, "/generate_content", map[string]string{"content_type": contentType})
	if err != nil {
		return "", err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("enrich: generate_content: decode: %w", err)
	}
	switch x := c.sanitize(v).(type) {
	case string:
		return x, nil
	case map[string]any:
		for _, k := range []string{"content", contentType, "text"} {
			if s, ok := x[k].(string); ok {
				return s, nil
			}
		}
	}
	return "", errors.New("enrich: generate_content: no text in response")
}

func (c *Client) object(ctx context.Context, path string, req any) (map[string]any, error) {
	data, err := c.post(ctx, path, req)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("enrich: %s: decode: %w", path, err)
	}
	out, _ := c.sanitize(m).(map[string]any)
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, req any) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("enrich: %s: marshal: %w", path, err)
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("enrich: %s: decode envelope: %w", path, err)
	}
	if !env.Success {
		return nil, &ServiceError{Endpoint: path, Method: env.Method, Message: env.Error}
	}
	return env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if !c.breaker.Allow() {
		return nil, &ErrCircuitOpen{Endpoint: path}
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("enrich: %s: new request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.Failure()
		return nil, fmt.Errorf("enrich: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		c.breaker.Failure()
		return nil, fmt.Errorf("enrich: %s: read: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.breaker.Failure()
		var env Envelope
		json.Unmarshal(body, &env)
		return nil, &StatusError{Endpoint: path, Status: resp.StatusCode, Message: env.Error}
	}
	c.breaker.Success()
	return body, nil
}

// sanitize strips markup from every string leaf.
func (c *Client) sanitize(v any) any {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(x)))
	case map[string]any:
		for k, e := range x {
			x[k] = c.sanitize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = c.sanitize(e)
		}
		return x
	}
	return v
}
