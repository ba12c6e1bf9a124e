// Package browser manages the Chrome instance the user applies through:
// launch or connect via Rod, optional Xvfb display, and stealth tabs.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrClosed is returned by Start once the manager has been closed.
var ErrClosed = errors.New("browser: manager closed")

// Mode controls how Chrome is shown.
type Mode int

const (
	Headless Mode = iota // no window; tabs still get stealth
	Headful              // visible window, on Xvfb when no DISPLAY
)

// ParseMode maps the configuration value to a Mode. Empty means headful:
// the user watches the form being filled.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "headless":
		return Headless, nil
	case "headful", "":
		return Headful, nil
	}
	return Headless, fmt.Errorf("browser: unknown mode %q", s)
}

func (m Mode) String() string {
	if m == Headful {
		return "headful"
	}
	return "headless"
}

// Config configures the browser manager.
type Config struct {
	// RemoteURL attaches to a Chrome the user already runs
	// (ws://127.0.0.1:9222/devtools/browser/...). Bin, UserDataDir and
	// Mode are then ignored.
	RemoteURL string

	// Bin is the Chrome binary. Empty lets the launcher find or fetch one.
	Bin string

	// UserDataDir keeps cookies and logins between sessions.
	UserDataDir string

	// ResourceBlocking lists resource types tabs skip (images, fonts, media).
	ResourceBlocking []string

	Mode Mode

	// XvfbDisplay is used in headful mode when DISPLAY is unset. Default ":99".
	XvfbDisplay string

	Logger *slog.Logger
}

// Manager owns one Chrome. Unlike a crawler's pool it never recycles the
// process: the tab holds a half-filled application.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	proc    *launcher.Launcher
	xvfb    *display
	closed  bool
}

// NewManager creates a browser Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	if cfg.XvfbDisplay == "" {
		cfg.XvfbDisplay = ":99"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{cfg: cfg}
}

// Start returns the connected browser, launching or attaching on first use.
func (m *Manager) Start(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.closed:
		return nil, ErrClosed
	case m.browser != nil:
		return m.browser, nil
	}

	controlURL, err := m.controlURL(ctx)
	if err != nil {
		m.release()
		return nil, err
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		m.release()
		return nil, fmt.Errorf("browser: connect %s: %w", controlURL, err)
	}
	m.browser = b
	return b, nil
}

// Browser returns the connected browser, or nil before Start.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

// Close disconnects and, for a launched Chrome, kills it and its Xvfb.
// An attached remote Chrome is left running.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.release()
}

// controlURL attaches to the remote Chrome or launches a local one.
func (m *Manager) controlURL(ctx context.Context) (string, error) {
	if m.cfg.RemoteURL != "" {
		m.cfg.Logger.Info("browser: attaching", "url", m.cfg.RemoteURL)
		return m.cfg.RemoteURL, nil
	}

	l := launcher.New().Context(ctx).
		Set("disable-blink-features", "AutomationControlled")
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	if m.cfg.UserDataDir != "" {
		l = l.UserDataDir(m.cfg.UserDataDir)
	}

	if m.cfg.Mode == Headless {
		l = l.Headless(true)
	} else {
		name := os.Getenv("DISPLAY")
		if name == "" {
			d, err := startDisplay(ctx, m.cfg.XvfbDisplay, m.cfg.Logger)
			if err != nil {
				return "", fmt.Errorf("browser: %w", err)
			}
			m.xvfb = d
			name = d.name
		}
		l = l.Headless(false).Env("DISPLAY=" + name)
	}

	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("browser: launch chrome: %w", err)
	}
	m.proc = l
	m.cfg.Logger.Info("browser: chrome launched", "mode", m.cfg.Mode, "url", u)
	return u, nil
}

func (m *Manager) release() error {
	var err error
	if m.browser != nil {
		if m.proc != nil {
			err = m.browser.Close()
		}
		m.browser = nil
	}
	if m.proc != nil {
		m.proc.Cleanup()
		m.proc = nil
	}
	m.xvfb.stop()
	m.xvfb = nil
	return err
}
