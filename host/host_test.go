package host

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobfill/dbopen"
	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/profile/store"
)

func TestDetect(t *testing.T) {
	d := MustDetector()
	tests := []struct {
		url, want string
	}{
		{"https://www.linkedin.com/jobs/view/123", "linkedin"},
		{"https://boards.greenhouse.io/acme/jobs/42", "greenhouse"},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers", "workday"},
		{"https://jobs.lever.co/acme/abc/apply", "lever"},
		{"https://acme.bamboohr.com/careers/12", "bamboohr"},
		{"https://careers-acme.icims.com/jobs/1/job", "icims"},
		{"https://notlinkedin.com/jobs", Generic},
		{"https://example.com/apply", Generic},
		{"not a url", Generic},
		{"", Generic},
	}
	for _, tt := range tests {
		if got := d.Detect(tt.url); got != tt.want {
			t.Errorf("Detect(%q): got %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDetectExtraFirst(t *testing.T) {
	d, err := NewDetector(map[string]string{"ashby": "jobs.ashbyhq.com"})
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Detect("https://jobs.ashbyhq.com/acme"); got != "ashby" {
		t.Errorf("got %q, want ashby", got)
	}
}

func TestDetectOverlappingExtraIsStable(t *testing.T) {
	extra := map[string]string{
		"zeta":  "**.example.com",
		"alpha": "{careers.example.com,**.example.com}",
		"mid":   "careers.example.*",
	}
	for i := 0; i < 50; i++ {
		d, err := NewDetector(extra)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.Detect("https://careers.example.com/apply"); got != "alpha" {
			t.Fatalf("run %d: got %q, want alpha", i, got)
		}
		if got := d.Detect("https://jobs.lever.co/acme"); got != "lever" {
			t.Fatalf("run %d: built-in pattern: got %q, want lever", i, got)
		}
	}
}

func TestLocalUserProfile(t *testing.T) {
	st, err := store.New(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	l := NewLocal(st, "", nil)

	if _, err := l.UserProfile(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("empty store: got %v, want ErrNotFound", err)
	}

	st.SaveProfile(ctx, store.DefaultProfileID, profile.Profile{"personalInfo": map[string]any{"email": "a@b.co"}})
	p, err := l.UserProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p.String("personalInfo.email") != "a@b.co" {
		t.Errorf("email: got %q", p.String("personalInfo.email"))
	}

	pl, _ := l.DetectPlatform(ctx, "https://jobs.lever.co/x")
	if pl != "lever" {
		t.Errorf("platform: got %q, want lever", pl)
	}
}

func TestStaticClones(t *testing.T) {
	s := &Static{Profile: profile.Profile{"personalInfo": map[string]any{"firstName": "A"}}}
	p, _ := s.UserProfile(context.Background())
	p.Set("personalInfo.firstName", "B")
	if s.Profile.String("personalInfo.firstName") != "A" {
		t.Error("Static handed out its own profile")
	}
}
