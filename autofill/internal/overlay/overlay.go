// Package overlay is the on-page trigger affordance of a live tab: a
// floating button wired to a CDP binding, a progress bar and result
// banners. The page may remove it at any time; Watch puts it back.
package overlay

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed overlay.js
var overlayJS string

// BindingName is the page-side function the button calls.
const BindingName = "__jobfill_trigger"

const (
	SuccessDismiss = 4 * time.Second
	ErrorDismiss   = 8 * time.Second
)

// Overlay drives the affordance on one page. It implements the
// controller's Indicator; every call is best-effort and only logged.
type Overlay struct {
	page   *rod.Page
	logger *slog.Logger
	wg     sync.WaitGroup // event loop and click handlers
}

// New creates an Overlay for page. Nothing is injected until Ensure.
func New(page *rod.Page, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Overlay{page: page, logger: logger}
}

// Ensure injects the affordance if the page lacks it. It reports whether
// it had to create it. Safe to call any number of times.
func (o *Overlay) Ensure(ctx context.Context) (bool, error) {
	res, err := o.page.Context(ctx).Eval(overlayJS)
	if err != nil {
		return false, fmt.Errorf("overlay: inject: %w", err)
	}
	return res.Value.Str() == "created", nil
}

// Bind registers the trigger binding and calls fn for every click until
// ctx ends. fn runs on its own goroutine; Wait blocks until every one
// has returned.
func (o *Overlay) Bind(ctx context.Context, fn func(ctx context.Context)) error {
	if err := (proto.RuntimeAddBinding{Name: BindingName}).Call(o.page); err != nil {
		return fmt.Errorf("overlay: add binding: %w", err)
	}
	wait := o.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != BindingName {
			return
		}
		o.logger.Debug("overlay: trigger clicked", "payload", e.Payload)
		o.dispatch(ctx, fn)
	})
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		wait()
	}()
	return nil
}

// dispatch runs fn on a tracked goroutine. Clicks after ctx ends are dropped.
func (o *Overlay) dispatch(ctx context.Context, fn func(ctx context.Context)) bool {
	if ctx.Err() != nil {
		return false
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		fn(ctx)
	}()
	return true
}

// Wait blocks until the event loop and all click handlers have returned.
// Cancel the context given to Bind first.
func (o *Overlay) Wait() {
	o.wg.Wait()
}

// Watch re-creates the affordance every interval until ctx ends.
func (o *Overlay) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			created, err := o.Ensure(ctx)
			if err != nil {
				o.logger.Debug("overlay: reconcile failed", "error", err)
				continue
			}
			if created {
				o.logger.Info("overlay: trigger re-created")
			}
		}
	}
}

func (o *Overlay) Progress(ctx context.Context, done, total int) {
	o.call(ctx, "progress", done, total, Percent(done, total))
}

func (o *Overlay) Success(ctx context.Context, filled, total int) {
	o.call(ctx, "success", SuccessText(filled, total), SuccessDismiss.Milliseconds())
}

func (o *Overlay) Failure(ctx context.Context, msg string) {
	o.call(ctx, "failure", msg, ErrorDismiss.Milliseconds())
}

func (o *Overlay) call(ctx context.Context, method string, args ...any) {
	if _, err := o.Ensure(ctx); err != nil {
		o.logger.Debug("overlay: unavailable", "method", method, "error", err)
		return
	}
	_, err := o.page.Context(ctx).Eval(`(m, ...a) => window.__jobfill[m](...a)`, append([]any{method}, args...)...)
	if err != nil {
		o.logger.Debug("overlay: call failed", "method", method, "error", err)
	}
}

// Percent is done/total as a whole percentage, 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return done * 100 / total
}

// SuccessText is the completion banner.
func SuccessText(filled, total int) string {
	if total == 0 {
		return "No fillable fields found"
	}
	return fmt.Sprintf("Filled %d of %d fields (%d%%)", filled, total, Percent(filled, total))
}
