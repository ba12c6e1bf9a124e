package store

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/dbopen"
	"github.com/hazyhaar/jobfill/profile"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := profile.Profile{"personalInfo": map[string]any{"firstName": "Jane", "email": "j@x.io"}}
	if err := s.SaveProfile(ctx, DefaultProfileID, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.Set("personalInfo.firstName", "Janet")
	if err := s.SaveProfile(ctx, DefaultProfileID, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.LoadProfile(ctx, DefaultProfileID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.String("personalInfo.firstName") != "Janet" {
		t.Errorf("firstName: got %q, want Janet", got.String("personalInfo.firstName"))
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	_, err := testStore(t).LoadProfile(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		rep := field.Report{
			RunID:     id,
			URL:       "https://boards.greenhouse.io/acme",
			Platform:  "greenhouse",
			Phase:     field.PhaseComplete,
			Total:     2,
			Filled:    i,
			Results:   []field.Result{{Index: 0, Kind: field.KindEmail, Slot: field.SlotEmail, Outcome: field.OutcomeFilled}},
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveRun(ctx, rep); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("runs: got %+v", runs)
	}
	if runs[0].Filled != 2 || runs[0].Phase != field.PhaseComplete {
		t.Errorf("run c: got %+v", runs[0])
	}
	if len(runs[0].Results) != 1 || runs[0].Results[0].Slot != field.SlotEmail {
		t.Errorf("results: got %+v", runs[0].Results)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Errorf("FinishedAt: got %v, want zero", runs[0].FinishedAt)
	}
}
