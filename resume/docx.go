package resume

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// readDocx extracts word/document.xml as text. Headings become Markdown
// headings and each table row one line of " | "-joined cells, all in
// document order.
func readDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("resume: docx %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("resume: docx %s: %w", path, err)
		}
		defer rc.Close()
		blocks, err := docxBlocks(io.LimitReader(rc, MaxSize))
		if err != nil {
			return "", fmt.Errorf("resume: docx %s: %w", path, err)
		}
		return strings.Join(blocks, "\n\n"), nil
	}
	return "", fmt.Errorf("resume: docx %s: word/document.xml missing", path)
}

func docxBlocks(r io.Reader) ([]string, error) {
	var (
		blocks []string
		para   strings.Builder
		style  string
		inText bool
		cells  []string
		cell   []string
		depth  int // table nesting
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
				style = ""
			case "pStyle":
				style = attr(t, "val")
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			case "tbl":
				depth++
			case "tr":
				if depth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if depth == 1 {
					cell = cell[:0]
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := strings.TrimSpace(para.String())
				if text == "" {
					continue
				}
				if depth > 0 {
					cell = append(cell, text)
					continue
				}
				if level := headingLevel(style); level > 0 {
					text = strings.Repeat("#", level) + " " + text
				}
				blocks = append(blocks, text)
			case "tc":
				if depth == 1 && len(cell) > 0 {
					cells = append(cells, strings.Join(cell, " "))
				}
			case "tr":
				if depth == 1 && len(cells) > 0 {
					blocks = append(blocks, strings.Join(cells, " | "))
				}
			case "tbl":
				depth--
			}
		}
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// headingLevel reads "Title", "Heading2", "Titre1" style IDs.
func headingLevel(style string) int {
	s := strings.ToLower(style)
	switch s {
	case "title":
		return 1
	case "subtitle":
		return 2
	}
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}
