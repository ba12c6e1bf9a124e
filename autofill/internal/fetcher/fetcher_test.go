package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const staticForm = `<!DOCTYPE html><html><body>
<form action="/apply">
<label for="fn">First name</label><input id="fn" name="first_name">
<input type="hidden" name="csrf" value="x">
<select name="state"><option>CA</option></select>
<textarea name="cover"></textarea>
<input type="submit" value="Apply">
</form></body></html>`

const spaShell = `<!DOCTYPE html><html><head><title>Apply</title></head>
<body><div id="root"></div><script src="/static/js/main.js"></script></body></html>`

func TestCountControls(t *testing.T) {
	if got := CountControls([]byte(staticForm)); got != 3 {
		t.Errorf("CountControls: got %d, want 3", got)
	}
	if got := CountControls([]byte(spaShell)); got != 0 {
		t.Errorf("CountControls(shell): got %d, want 0", got)
	}
}

func TestIsSPAShell(t *testing.T) {
	if !IsSPAShell([]byte(spaShell)) {
		t.Error("expected SPA shell")
	}
	if IsSPAShell([]byte(staticForm)) {
		t.Error("static form is not a shell")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/form":
			w.Write([]byte(staticForm))
		case "/spa":
			w.Write([]byte(spaShell))
		case "/resume.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.7"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &Fetcher{}
	res, err := f.Fetch(context.Background(), srv.URL+"/form")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Sufficient || res.Controls != 3 || !res.Remote {
		t.Errorf("form: sufficient %v controls %d", res.Sufficient, res.Controls)
	}

	res, err = f.Fetch(context.Background(), srv.URL+"/spa")
	if err != nil {
		t.Fatal(err)
	}
	if res.Sufficient {
		t.Error("spa shell should not be sufficient")
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("404 should fail")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/resume.pdf"); err == nil {
		t.Error("non-html body should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")
	if err := os.WriteFile(path, []byte(staticForm), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, target := range []string{path, "file://" + path} {
		res, err := (&Fetcher{}).Load(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		if res.URL != "file://"+path || !res.Sufficient || res.Remote {
			t.Errorf("Load(%q): got url %q sufficient %v remote %v", target, res.URL, res.Sufficient, res.Remote)
		}
	}
}
