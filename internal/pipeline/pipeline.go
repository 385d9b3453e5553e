// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the parsing stages into a per-document run:
// normalize → segment → extract → resolve references → emit rows. Each
// stage fully consumes its predecessor's output; documents are small
// enough that no streaming fusion is needed.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/standards-engine/internal/emit"
	"github.com/pdiddy/standards-engine/internal/extract"
	"github.com/pdiddy/standards-engine/internal/normalize"
	"github.com/pdiddy/standards-engine/internal/pdftext"
	"github.com/pdiddy/standards-engine/internal/segment"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// Options configures a parse run.
type Options struct {
	// Config carries the source label and batch worker count.
	Config types.ParseConfig

	// Reader supplies page text. Defaults to the PDF reader.
	Reader pdftext.Reader

	// Now stamps the updated_at column. Defaults to time.Now; tests
	// pin it.
	Now func() time.Time
}

func (o Options) reader() pdftext.Reader {
	if o.Reader != nil {
		return o.Reader
	}
	return pdftext.PDFReader{}
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Result is the outcome of parsing one document.
type Result struct {
	// Rows holds the emitted rows in document order.
	Rows []types.Row

	// Diagnostics lists the structural issues found along the way.
	Diagnostics []types.Diagnostic
}

// ParseDocument runs the full pipeline over a page sequence. It always
// returns a result: structural problems surface as diagnostics and
// empty fields, never as errors.
func ParseDocument(pages []pdftext.Page, opts Options) *Result {
	doc := &types.Document{
		Source:    opts.Config.SourceLabel,
		UpdatedAt: opts.now().Format("2006-01-02"),
	}

	lines := normalize.Pages(pages, doc)
	segment.Document(lines, doc)
	extract.Document(doc)

	return &Result{
		Rows:        emit.Rows(doc),
		Diagnostics: doc.Diagnostics,
	}
}

// ParseFile reads one source document and parses it. The error return
// covers collaborator failures only (unreadable file).
func ParseFile(path string, opts Options) (*Result, error) {
	pages, err := opts.reader().Pages(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(pages, opts), nil
}

// ParseFileToCSV parses one document and appends its rows to the output
// CSV, printing a one-line status and any diagnostics to w.
func ParseFileToCSV(path, outputCSV string, opts Options, w io.Writer) error {
	res, err := ParseFile(path, opts)
	if err != nil {
		return err
	}
	if err := emit.AppendCSV(outputCSV, res.Rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "parsed %s (%d rows)\n", path, len(res.Rows))
	reportDiagnostics(w, res.Diagnostics)
	return nil
}

// reportDiagnostics prints the structural warnings for one document.
func reportDiagnostics(w io.Writer, diags []types.Diagnostic) {
	for _, d := range diags {
		if d.Context != "" {
			fmt.Fprintf(w, "  warning: %s [%s, page %d]: %s\n", d.Kind, d.Context, d.Page, d.Detail)
			continue
		}
		fmt.Fprintf(w, "  warning: %s [page %d]: %s\n", d.Kind, d.Page, d.Detail)
	}
}
