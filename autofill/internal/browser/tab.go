package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

// Tab is one stealth page the user fills forms in.
type Tab struct {
	Page    *rod.Page
	PageURL string
	manager *Manager
	router  *rod.HijackRouter
}

// OpenTab creates a stealth tab and navigates it to pageURL. An empty
// pageURL leaves the tab blank for the user to navigate.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	t := &Tab{Page: page, PageURL: pageURL, manager: mgr}
	if len(mgr.cfg.ResourceBlocking) > 0 {
		r, err := blockResources(page, mgr.cfg.ResourceBlocking)
		if err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
		t.router = r
	}
	if pageURL == "" {
		return t, nil
	}
	if err := t.Navigate(ctx, pageURL, 30*time.Second); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Navigate loads pageURL and waits for the load event, bounded by timeout.
// A load timeout is logged, not returned: the page is usually usable.
func (t *Tab) Navigate(ctx context.Context, pageURL string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := t.Page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := t.Page.Context(navCtx).WaitLoad(); err != nil {
		t.manager.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}
	t.PageURL = pageURL
	return nil
}

// Settle waits until the DOM stops changing for a short while, so
// client-rendered forms are present before discovery.
func (t *Tab) Settle(ctx context.Context, timeout time.Duration) error {
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return t.Page.Context(sctx).WaitDOMStable(300*time.Millisecond, 0)
}

// Close stops request interception and closes the tab.
func (t *Tab) Close() error {
	if t.router != nil {
		t.router.Stop()
	}
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
