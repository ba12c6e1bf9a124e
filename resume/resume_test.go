package resume

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStreamText(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 712 Td\n(Ada Lovelace) Tj\n0 -14 Td\n[(Analyst) -250 (\\(Engines\\))] TJ\nT*\n(London\\0401843) '\nET\n")
	got := streamText(stream)
	want := "Ada Lovelace Analyst(Engines) London 1843"
	if got != want {
		t.Errorf("streamText: got %q, want %q", got, want)
	}
}

func TestUnescapeLiteral(t *testing.T) {
	tests := map[string]string{
		`a\nb`:   "a\nb",
		`\(x\)`:  "(x)",
		`\101BC`: "ABC",
		`back\\`: `back\`,
		`trail\`: `trail\`,
	}
	for in, want := range tests {
		if got := unescapeLiteral([]byte(in)); got != want {
			t.Errorf("unescapeLiteral(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestReadFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	os.WriteFile(path, []byte("Jane Doe\r\nEngineer\r\n"), 0o644)

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Jane Doe\nEngineer" {
		t.Errorf("got %q", got)
	}
}

func TestReadFileHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.html")
	os.WriteFile(path, []byte(`<html><body><h1>Jane Doe</h1><p>Senior <b>Go</b> engineer</p></body></html>`), 0o644)

	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "# Jane Doe") || !strings.Contains(got, "**Go**") {
		t.Errorf("markdown: got %q", got)
	}
}

func TestReadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	os.WriteFile(path, []byte("x"), 0o644)
	if _, err := ReadFile(path); !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestMarkdownLinks(t *testing.T) {
	got, err := Markdown(`<p>See <a href="/jobs/1">the role</a></p>`, "https://acme.example")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "https://acme.example/jobs/1") {
		t.Errorf("got %q", got)
	}
}
