// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/standards-engine/internal/emit"
	"github.com/pdiddy/standards-engine/internal/pdftext"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// fakeReader serves canned pages keyed by file base name.
type fakeReader struct {
	pages map[string][]pdftext.Page
	errs  map[string]error
}

func (f fakeReader) Pages(path string) ([]pdftext.Page, error) {
	base := filepath.Base(path)
	if err := f.errs[base]; err != nil {
		return nil, err
	}
	return f.pages[base], nil
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("placeholder"), 0o644)
}

// reportPages builds a minimal two-page report with one standard, one
// element, and one factor.
func reportPages(stdIndex string) []pdftext.Page {
	return []pdftext.Page{
		{Number: 1, Lines: []string{"Quality Management and Improvement"}},
		{Number: 2, Lines: []string{
			"Effective for Surveys On or After July 1, 2025",
			stdIndex + ": Program Structure",
			"Element A: QI Program Structure",
			"The description specifies:",
			"1. The program structure.",
		}},
	}
}

func testOptions() Options {
	return Options{
		Config: types.ParseConfig{SourceLabel: "NCQA Health Plan Standards"},
		Now:    func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) },
	}
}

func TestParseDocument(t *testing.T) {
	res := ParseDocument(reportPages("QI 1"), testOptions())

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "NCQA Health Plan Standards", row.Source)
	assert.Equal(t, "Quality Management and Improvement", row.FunctionalArea)
	assert.Equal(t, "QI 1", row.StandardIndex)
	assert.Equal(t, "Element A", row.ElementIndex)
	assert.Equal(t, "1", row.FactorIndex)
	assert.Equal(t, "2025-07-01", row.EffectiveDate)
	assert.Equal(t, "2026-08-24", row.UpdatedAt)
	assert.Equal(t, "NCQA Health Plan Standards, 2025, QI 1, Element A, Factor 1", row.FactorReference)

	// The minimal report has no Scoring or Data source sections; those
	// surface as diagnostics, never as errors.
	for _, d := range res.Diagnostics {
		assert.Equal(t, types.DiagMissingMarker, d.Kind)
	}
	assert.NotEmpty(t, res.Diagnostics)
}

func TestParseFileToCSV(t *testing.T) {
	opts := testOptions()
	opts.Reader = fakeReader{pages: map[string][]pdftext.Page{
		"report.pdf": reportPages("QI 1"),
	}}

	outCSV := filepath.Join(t.TempDir(), "rows.csv")
	var buf strings.Builder
	err := ParseFileToCSV("report.pdf", outCSV, opts, &buf)
	require.NoError(t, err)

	rows, err := emit.ReadCSV(outCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, buf.String(), "parsed report.pdf (1 rows)")
	assert.Contains(t, buf.String(), "warning:")
}

func TestParseDir_OrderedOutput(t *testing.T) {
	dir := t.TempDir()
	// Placeholder files; the fake reader supplies the page text.
	for _, name := range []string{"a.pdf", "b.pdf", "notes.txt"} {
		require.NoError(t, writeFile(filepath.Join(dir, name)))
	}

	opts := testOptions()
	opts.Config.Workers = 2
	opts.Reader = fakeReader{pages: map[string][]pdftext.Page{
		"a.pdf": reportPages("QI 1"),
		"b.pdf": reportPages("QI 2"),
	}}

	outCSV := filepath.Join(t.TempDir(), "rows.csv")
	var buf strings.Builder
	summary, err := ParseDir(dir, outCSV, opts, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, 2, summary.Total())

	// Rows land in directory-scan order regardless of which worker
	// finished first.
	rows, err := emit.ReadCSV(outCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "QI 1", rows[0].StandardIndex)
	assert.Equal(t, "QI 2", rows[1].StandardIndex)
}

func TestParseDir_FailedFileSkipped(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bad.pdf", "good.pdf"} {
		require.NoError(t, writeFile(filepath.Join(dir, name)))
	}

	opts := testOptions()
	opts.Reader = fakeReader{
		pages: map[string][]pdftext.Page{"good.pdf": reportPages("QI 1")},
		errs:  map[string]error{"bad.pdf": assert.AnError},
	}

	outCSV := filepath.Join(t.TempDir(), "rows.csv")
	var buf strings.Builder
	summary, err := ParseDir(dir, outCSV, opts, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Parsed)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, buf.String(), "failed")

	rows, err := emit.ReadCSV(outCSV)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseDir_NoInputs(t *testing.T) {
	_, err := ParseDir(t.TempDir(), filepath.Join(t.TempDir(), "rows.csv"), testOptions(), &strings.Builder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PDF files")
}
