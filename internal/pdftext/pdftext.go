// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts per-page text from PDF reports. The parsing
// pipeline never opens files itself; it consumes the page sequence this
// package produces.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the text of one PDF page, split into raw lines.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Lines holds the page text in reading order. Empty when the page
	// yielded no extractable text.
	Lines []string
}

// Reader yields the ordered pages of a source document. Implementations
// other than the PDF reader exist only in tests.
type Reader interface {
	Pages(path string) ([]Page, error)
}

// PDFReader reads pages with a pure-Go PDF text extractor.
type PDFReader struct{}

// Pages opens the PDF at path and returns one Page per document page.
// Pages that fail text extraction are returned empty rather than
// aborting the document; the normalizer diagnoses them.
func (PDFReader) Pages(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]Page, 0, total)

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, Page{Number: i})
			continue
		}

		pages = append(pages, Page{Number: i, Lines: SplitLines(text)})
	}

	return pages, nil
}

// SplitLines breaks extracted page text into lines, dropping carriage
// returns but keeping blank lines as section-boundary hints.
func SplitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
