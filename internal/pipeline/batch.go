// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pdiddy/standards-engine/internal/emit"
)

// BatchSummary holds counts from a batch parse run.
type BatchSummary struct {
	Parsed      int
	Failed      int
	Rows        int
	Diagnostics int
}

// Total returns the number of input files processed.
func (s BatchSummary) Total() int {
	return s.Parsed + s.Failed
}

// ParseDir parses every PDF under dir (recursive) and appends the rows
// to outputCSV. Documents are independent, so they parse on parallel
// workers; rows are still appended in directory-scan order, not
// completion order, so repeated runs produce identical output.
//
// A per-document failure is reported on w and skipped. The error return
// is reserved for collaborator failures: no input files, unreadable
// directory, unwritable output.
func ParseDir(dir, outputCSV string, opts Options, w io.Writer) (BatchSummary, error) {
	paths, err := findPDFs(dir)
	if err != nil {
		return BatchSummary{}, err
	}
	if len(paths) == 0 {
		return BatchSummary{}, fmt.Errorf("no PDF files found under %s", dir)
	}

	fmt.Fprintf(w, "found %d PDF files under %s\n", len(paths), dir)

	workers := opts.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type outcome struct {
		res *Result
		err error
	}
	outcomes := make([]outcome, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := ParseFile(path, opts)
			outcomes[i] = outcome{res: res, err: err}
		}()
	}
	wg.Wait()

	// Flush in input order for reproducible output.
	var summary BatchSummary
	for i, path := range paths {
		out := outcomes[i]
		if out.err != nil {
			fmt.Fprintf(w, "failed %s: %v\n", path, out.err)
			summary.Failed++
			continue
		}
		if err := emit.AppendCSV(outputCSV, out.res.Rows); err != nil {
			return summary, err
		}
		fmt.Fprintf(w, "parsed %s (%d rows)\n", path, len(out.res.Rows))
		reportDiagnostics(w, out.res.Diagnostics)
		summary.Parsed++
		summary.Rows += len(out.res.Rows)
		summary.Diagnostics += len(out.res.Diagnostics)
	}

	fmt.Fprintf(w, "\nparsed: %d, failed: %d, rows: %d, warnings: %d\n",
		summary.Parsed, summary.Failed, summary.Rows, summary.Diagnostics)
	return summary, nil
}

// findPDFs walks dir recursively and returns the PDF paths in lexical
// order.
func findPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return paths, nil
}
