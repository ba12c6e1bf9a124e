// Package resume turns resume files and job pages into plain text for the
// profile and the enrichment service.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ErrUnsupported is returned for file types ReadFile does not handle.
var ErrUnsupported = errors.New("resume: unsupported file type")

// MaxSize bounds the files ReadFile accepts.
const MaxSize = 16 << 20

var (
	convOnce sync.Once
	conv     *converter.Converter
)

func mdConverter() *converter.Converter {
	convOnce.Do(func() {
		conv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	})
	return conv
}

// ReadFile extracts the text of a resume: .txt and .md as is, .pdf via its
// content streams, .docx paragraphs and tables, .html/.htm as Markdown.
func ReadFile(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resume: %w", err)
	}
	if fi.Size() > MaxSize {
		return "", fmt.Errorf("resume: %s: %d bytes exceeds %d", path, fi.Size(), MaxSize)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("resume: %w", err)
		}
		return strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n")), nil
	case ".pdf":
		return readPDF(path)
	case ".docx":
		return readDocx(path)
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("resume: %w", err)
		}
		return Markdown(string(data), "")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Markdown converts an HTML document to Markdown. pageURL, when set,
// resolves relative links.
func Markdown(html, pageURL string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}
	md, err := mdConverter().ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("resume: markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
