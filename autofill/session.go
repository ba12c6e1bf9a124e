package autofill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/autofill/internal/browser"
	"github.com/hazyhaar/jobfill/autofill/internal/overlay"
	"github.com/hazyhaar/jobfill/autofill/internal/roddom"
)

// Session is a live Chrome tab with the trigger affordance installed.
// Clicking the overlay, or calling Trigger, runs the Controller against
// the tab's current document. Session is a Source.
type Session struct {
	ctl    *Controller
	mgr    *browser.Manager
	tab    *browser.Tab
	ov     *overlay.Overlay
	logger *slog.Logger

	settle time.Duration
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// OpenSession launches (or connects to) Chrome per cfg.Browser, opens
// pageURL in a stealth tab and installs the overlay. The session lives
// until ctx ends or Close is called.
func OpenSession(ctx context.Context, ctl *Controller, cfg *Config, pageURL string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, err := browser.ParseMode(cfg.Browser.Stealth)
	if err != nil {
		return nil, err
	}
	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		Bin:              cfg.Browser.Bin,
		UserDataDir:      cfg.Browser.UserDataDir,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Mode:             mode,
		XvfbDisplay:      cfg.Browser.XvfbDisplay,
		Logger:           logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	tab, err := browser.OpenTab(ctx, mgr, pageURL)
	if err != nil {
		mgr.Close()
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ctl:    ctl,
		mgr:    mgr,
		tab:    tab,
		ov:     overlay.New(tab.Page, logger),
		logger: logger,
		settle: cfg.Engine.SettleTimeout,
		cancel: cancel,
	}
	if _, err := s.ov.Ensure(sctx); err != nil {
		logger.Warn("autofill: overlay not installed yet", "error", err)
	}
	if err := s.ov.Bind(sctx, s.onClick); err != nil {
		s.Close()
		return nil, err
	}
	ctl.SetIndicator(s.ov)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ov.Watch(sctx, cfg.Engine.WatchdogInterval)
	}()

	logger.Info("autofill: session open", "url", pageURL, "mode", mode)
	return s, nil
}

// Document waits for the page to settle and returns it.
func (s *Session) Document(ctx context.Context) (Document, error) {
	if s.settle > 0 {
		if err := s.tab.Settle(ctx, s.settle); err != nil {
			s.logger.Debug("autofill: page still changing, continuing", "error", err)
		}
	}
	doc := roddom.New(ctx, s.tab.Page)
	if !doc.Ready() {
		return nil, ErrPageNotReady
	}
	return doc, nil
}

// Trigger runs the controller against the current page.
func (s *Session) Trigger(ctx context.Context) (*field.Run, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		s.ov.Failure(ctx, "Page not ready, try again in a moment")
		return nil, err
	}
	return s.ctl.Trigger(ctx, doc)
}

// Navigate loads pageURL in the session tab.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	if err := s.tab.Navigate(ctx, pageURL, 30*time.Second); err != nil {
		return err
	}
	_, err := s.ov.Ensure(ctx)
	return err
}

func (s *Session) onClick(ctx context.Context) {
	run, err := s.Trigger(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Debug("autofill: click ignored, run in progress")
	case err != nil && run == nil:
		s.logger.Warn("autofill: trigger rejected", "error", err)
	case run != nil:
		s.logger.Info("autofill: click run finished", "run", run.ID, "phase", run.Phase,
			"filled", run.Filled, "total", run.Total)
	}
}

// Close stops the watchdog, waits for in-flight click runs and shuts the
// browser down.
func (s *Session) Close() error {
	s.cancel()
	s.wg.Wait()
	s.ov.Wait()
	s.ctl.SetIndicator(nil)
	var errs []error
	if err := s.tab.Close(); err != nil {
		errs = append(errs, fmt.Errorf("autofill: close tab: %w", err))
	}
	if err := s.mgr.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
