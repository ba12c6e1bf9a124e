package idgen

import (
	"strings"
	"testing"
	"time"
)

func TestUUIDv7Sortable(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		id := gen()
		if len(id) != 36 {
			t.Fatalf("length: got %d, want 36", len(id))
		}
		if id <= prev {
			t.Fatalf("not sorted: %s after %s", id, prev)
		}
		prev = id
	}
}

func TestPrefixed(t *testing.T) {
	id := Prefixed("imp_", Sequence("x"))()
	if id != "imp_x-1" {
		t.Errorf("got %q, want imp_x-1", id)
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence("run")
	for _, want := range []string{"run-1", "run-2", "run-3"} {
		if got := gen(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestDefault(t *testing.T) {
	id := New()
	if !strings.HasPrefix(id, "run_") {
		t.Errorf("got %q, want run_ prefix", id)
	}
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	got, err := Time(New())
	if err != nil {
		t.Fatal(err)
	}
	if got.Before(before) || got.After(time.Now().Add(time.Second)) {
		t.Errorf("embedded time %v out of range", got)
	}
	if _, err := Time("run-1"); err == nil {
		t.Error("want error for non-uuid id")
	}
}
