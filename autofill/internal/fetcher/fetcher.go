// Package fetcher is the browserless acquisition path for inspection: a
// single HTTP GET, or a local file, plus a check that the static HTML
// already carries the form.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"
)

// MaxBody caps a fetched or loaded page.
const MaxBody = 10 << 20

// DefaultUserAgent matches the Chrome the live path drives, so sites serve
// the same markup to both.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Page is an acquired document.
type Page struct {
	URL    string
	HTML   []byte
	Remote bool
	Status int

	// Controls counts fillable controls in the static markup.
	Controls int
	// Sufficient is true when Controls > 0 and the page is not an SPA
	// shell, so no browser is needed.
	Sufficient bool
}

// Fetcher loads pages. The zero value is usable.
type Fetcher struct {
	Client    *http.Client // default: 30s timeout
	UserAgent string       // default: DefaultUserAgent
	Logger    *slog.Logger
}

// Load fetches target when it is an http(s) URL and reads it from disk
// otherwise; a file:// prefix is accepted.
func (f *Fetcher) Load(ctx context.Context, target string) (*Page, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return f.Fetch(ctx, target)
	}
	path := strings.TrimPrefix(target, "file://")
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fetcher: %w", err)
	}
	defer fh.Close()
	body, err := io.ReadAll(io.LimitReader(fh, MaxBody))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read %s: %w", path, err)
	}
	return f.page("file://"+path, false, http.StatusOK, body), nil
}

// Fetch GETs pageURL. Error statuses and non-HTML bodies are errors.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: %w", err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetcher: %s: status %d", pageURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, _ := mime.ParseMediaType(ct)
		if mt != "text/html" && mt != "application/xhtml+xml" {
			return nil, fmt.Errorf("fetcher: %s: not html (%s)", pageURL, mt)
		}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read %s: %w", pageURL, err)
	}
	return f.page(resp.Request.URL.String(), true, resp.StatusCode, body), nil
}

func (f *Fetcher) page(pageURL string, remote bool, status int, body []byte) *Page {
	p := &Page{URL: pageURL, HTML: body, Remote: remote, Status: status}
	p.Controls = CountControls(body)
	p.Sufficient = p.Controls > 0 && !IsSPAShell(body)

	log := f.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("fetcher: loaded", "url", pageURL, "bytes", len(body), "controls", p.Controls, "sufficient", p.Sufficient)
	return p
}
