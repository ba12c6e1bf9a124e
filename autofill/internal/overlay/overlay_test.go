package overlay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

func TestPercent(t *testing.T) {
	tests := []struct{ done, total, want int }{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{3, 3, 100},
		{5, 3, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d): got %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestWaitCoversClickHandlers(t *testing.T) {
	o := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	var finished atomic.Int32
	handler := func(ctx context.Context) {
		<-release
		finished.Add(1)
	}
	for i := 0; i < 3; i++ {
		if !o.dispatch(ctx, handler) {
			t.Fatal("dispatch refused a click on a live context")
		}
	}
	cancel()
	if o.dispatch(ctx, handler) {
		t.Error("dispatch accepted a click after cancel")
	}

	waited := make(chan struct{})
	go func() {
		o.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		t.Fatal("Wait returned while handlers were running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after handlers finished")
	}
	if got := finished.Load(); got != 3 {
		t.Errorf("finished handlers: got %d, want 3", got)
	}
}

func TestSuccessText(t *testing.T) {
	if got := SuccessText(3, 4); got != "Filled 3 of 4 fields (75%)" {
		t.Errorf("got %q", got)
	}
	if got := SuccessText(0, 0); got != "No fillable fields found" {
		t.Errorf("empty page: got %q", got)
	}
}

func livePage(t *testing.T) *rod.Page {
	t.Helper()
	bin, ok := launcher.LookPath()
	if !ok || testing.Short() {
		t.Skip("chrome not available")
	}
	l := launcher.New().Bin(bin).Headless(true)
	u, err := l.Launch()
	if err != nil {
		t.Skipf("launch chrome: %v", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		b.Close()
		l.Cleanup()
	})
	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		t.Fatal(err)
	}
	if err := page.SetDocumentContent("<html><body><form></form></body></html>"); err != nil {
		t.Fatal(err)
	}
	return page
}

func TestEnsureIdempotentAndReconciles(t *testing.T) {
	page := livePage(t)
	o := New(page, nil)
	ctx := context.Background()

	if created, err := o.Ensure(ctx); err != nil || !created {
		t.Fatalf("first Ensure: got (%v, %v), want created", created, err)
	}
	if created, _ := o.Ensure(ctx); created {
		t.Error("second Ensure re-created the overlay")
	}
	if n := len(page.MustElements("#__jobfill_overlay")); n != 1 {
		t.Errorf("overlays: got %d, want 1", n)
	}

	page.MustEval(`() => document.getElementById("__jobfill_overlay").remove()`)
	if created, _ := o.Ensure(ctx); !created {
		t.Error("Ensure did not restore a removed overlay")
	}

	o.Progress(ctx, 1, 4)
	if got := page.MustEval(`() => document.querySelector("#__jobfill_overlay button").textContent`).Str(); got != "Filling 1/4 (25%)" {
		t.Errorf("progress label: got %q", got)
	}
}
