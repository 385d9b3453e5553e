// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdiddy/standards-engine/pkg/types"
)

// runExtract wraps a raw element body in a minimal document tree and
// runs the extractor over it.
func runExtract(t *testing.T, body string) (*types.Element, *types.Document) {
	t.Helper()
	doc := &types.Document{
		FunctionalAreas: []types.FunctionalArea{{
			Title: "Quality Management and Improvement",
			Standards: []types.Standard{{
				Index: "QI 1",
				Elements: []types.Element{{
					Index:   "Element A",
					Title:   "Program Structure",
					RawBody: body,
					Page:    3,
				}},
			}},
		}},
	}
	Document(doc)
	return &doc.FunctionalAreas[0].Standards[0].Elements[0], doc
}

func diagKinds(doc *types.Document) []types.DiagnosticKind {
	var kinds []types.DiagnosticKind
	for _, d := range doc.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestDocument_FullElement(t *testing.T) {
	body := strings.Join([]string{
		"The organization's QI program description specifies:",
		"1. The program structure.*",
		"2. Behavioral healthcare aspects.",
		"*Critical factors",
		"Summary of Changes",
		"Scoring",
		"Met",
		"Partially Met",
		"Not Met",
		"The organization meets 2 factors",
		"The organization meets 1 factor",
		"No scoring situations apply",
		"Data source",
		"Documents",
		"Explanation",
		"This element is a MUST-PASS element.",
		"Factor 1: Program structure",
		"The written description must include structure. Critical factor.",
		"Factor 2: Behavioral healthcare",
		"The description addresses behavioral aspects.",
		"Examples",
		"Sample program description",
	}, "\n")

	el, doc := runExtract(t, body)

	if el.RawBody != "" {
		t.Error("raw body should be cleared after extraction")
	}
	if el.DataSource != "Documents" {
		t.Errorf("DataSource = %q", el.DataSource)
	}
	if !el.MustPass {
		t.Error("MustPass = false, want true")
	}
	if !strings.Contains(el.Explanation, "MUST-PASS") {
		t.Errorf("Explanation = %q, missing must-pass sentence", el.Explanation)
	}
	if strings.Contains(el.Explanation, "Sample program description") {
		t.Error("Explanation should stop at the Examples marker")
	}
	if el.NumFactors != 2 {
		t.Fatalf("NumFactors = %d, want 2", el.NumFactors)
	}
	if len(el.Factors) != 2 {
		t.Fatalf("got %d factors, want 2", len(el.Factors))
	}

	f1, f2 := el.Factors[0], el.Factors[1]
	if f1.Index != "1" || f1.Label != "Factor 1" {
		t.Errorf("factor 1 index/label = %q / %q", f1.Index, f1.Label)
	}
	if f1.Title != "Program structure" {
		t.Errorf("factor 1 title = %q", f1.Title)
	}
	if want := "The organization's QI program description specifies The program structure.*"; f1.Description != want {
		t.Errorf("factor 1 description = %q, want %q", f1.Description, want)
	}
	if !strings.Contains(f1.Explanation, "must include structure") {
		t.Errorf("factor 1 explanation = %q", f1.Explanation)
	}
	if !f1.Critical {
		t.Error("factor 1 should be critical (trailing asterisk plus footnote)")
	}
	if f2.Title != "Behavioral healthcare" {
		t.Errorf("factor 2 title = %q", f2.Title)
	}
	if f2.Critical {
		t.Error("factor 2 should not be critical")
	}

	var breakdown map[string]struct {
		Description   string `json:"description"`
		MinNumFactors *int   `json:"min_num_factors"`
		MaxNumFactors *int   `json:"max_num_factors"`
	}
	if err := json.Unmarshal([]byte(el.Scoring), &breakdown); err != nil {
		t.Fatalf("scoring is not JSON: %v\n%s", err, el.Scoring)
	}
	met := breakdown["met"]
	if met.MinNumFactors == nil || *met.MinNumFactors != 2 || *met.MaxNumFactors != 2 {
		t.Errorf("met factor bounds = %+v", met)
	}
	pm := breakdown["partially_met"]
	if pm.MinNumFactors == nil || *pm.MinNumFactors != 1 {
		t.Errorf("partially_met factor bounds = %+v", pm)
	}
	if breakdown["not_met"].MinNumFactors != nil {
		t.Error("not_met should carry no factor bounds")
	}

	if len(doc.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", doc.Diagnostics)
	}
}

func TestDocument_InlineMarkers(t *testing.T) {
	body := strings.Join([]string{
		"Scoring: Full credit",
		"Data Source: Records",
		"Explanation The organization must pass this MUST-PASS element.",
	}, "\n")

	el, doc := runExtract(t, body)

	if el.Scoring != "Full credit" {
		t.Errorf("Scoring = %q, want \"Full credit\"", el.Scoring)
	}
	if el.DataSource != "Records" {
		t.Errorf("DataSource = %q, want \"Records\"", el.DataSource)
	}
	if !el.MustPass {
		t.Error("MustPass = false, want true")
	}
	if el.NumFactors != 0 || el.FactorsText != "" || len(el.Factors) != 0 {
		t.Errorf("factor fields should be empty: num=%d text=%q factors=%d",
			el.NumFactors, el.FactorsText, len(el.Factors))
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", doc.Diagnostics)
	}
}

func TestDocument_LetteredFactors(t *testing.T) {
	body := strings.Join([]string{
		"Requirements include the following:",
		"A. First requirement.",
		"B. Second requirement.*",
	}, "\n")

	el, doc := runExtract(t, body)

	if el.NumFactors != 2 {
		t.Fatalf("NumFactors = %d, want 2", el.NumFactors)
	}
	if el.Factors[0].Index != "A" || el.Factors[1].Index != "B" {
		t.Errorf("factor indexes = %q, %q", el.Factors[0].Index, el.Factors[1].Index)
	}
	if el.Factors[0].Label != "A" {
		t.Errorf("lettered factor label = %q, want bare letter", el.Factors[0].Label)
	}
	// A trailing asterisk means nothing without the critical footnote.
	if el.Factors[1].Critical {
		t.Error("factor B should not be critical without the footnote")
	}

	kinds := diagKinds(doc)
	if len(kinds) != 2 {
		t.Fatalf("got diagnostics %v, want missing scoring and data source", kinds)
	}
	for _, k := range kinds {
		if k != types.DiagMissingMarker {
			t.Errorf("diagnostic kind = %q", k)
		}
	}
}

func TestDocument_BareMarkerCountMismatch(t *testing.T) {
	body := strings.Join([]string{
		"The description specifies:",
		"1. *Critical factors",
	}, "\n")

	el, doc := runExtract(t, body)

	if el.NumFactors != 1 {
		t.Errorf("NumFactors = %d, want 1", el.NumFactors)
	}
	if len(el.Factors) != 0 {
		t.Errorf("got %d factors, want 0", len(el.Factors))
	}

	found := false
	for _, d := range doc.Diagnostics {
		if d.Kind == types.DiagFactorCountMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("missing factor-count-mismatch diagnostic in %v", doc.Diagnostics)
	}
}

func TestDocument_ExplanationFallback(t *testing.T) {
	// Without an Explanation marker the explanation is the body up to
	// the Summary of Changes heading.
	body := strings.Join([]string{
		"The organization reviews its records annually.",
		"Summary of Changes",
		"Clarified the look-back period.",
	}, "\n")

	el, _ := runExtract(t, body)

	if el.Explanation != "The organization reviews its records annually." {
		t.Errorf("Explanation = %q", el.Explanation)
	}
}

func TestFormatScoring_UnrecognizedShapePassesThrough(t *testing.T) {
	raw := "100%: All factors met\n80%: Most factors met"
	if got := formatScoring(raw); got != raw {
		t.Errorf("formatScoring rewrote an unrecognized span:\n%s", got)
	}
}

func TestFormatScoring_RangeBounds(t *testing.T) {
	raw := strings.Join([]string{
		"Met",
		"Partially Met",
		"Not Met",
		"The organization meets 5 factors",
		"The organization meets 3-4 factors",
		"The organization meets 0-2 factors",
	}, "\n")

	got := formatScoring(raw)

	var breakdown map[string]struct {
		MinNumFactors *int `json:"min_num_factors"`
		MaxNumFactors *int `json:"max_num_factors"`
	}
	if err := json.Unmarshal([]byte(got), &breakdown); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, got)
	}
	pm := breakdown["partially_met"]
	if pm.MinNumFactors == nil || *pm.MinNumFactors != 3 || *pm.MaxNumFactors != 4 {
		t.Errorf("partially_met bounds = %+v, want 3-4", pm)
	}
	nm := breakdown["not_met"]
	if nm.MinNumFactors == nil || *nm.MinNumFactors != 0 || *nm.MaxNumFactors != 2 {
		t.Errorf("not_met bounds = %+v, want 0-2", nm)
	}
}

func TestSpecCovers(t *testing.T) {
	tests := []struct {
		spec   string
		marker string
		want   bool
	}{
		{"3", "3", true},
		{"2, 3", "3", true},
		{"2-4", "3", true},
		{"2–4", "3", true},
		{"A", "A", true},
		{"1", "2", false},
		{"2-4", "5", false},
		{"A", "B", false},
	}

	for _, tt := range tests {
		if got := specCovers(tt.spec, tt.marker); got != tt.want {
			t.Errorf("specCovers(%q, %q) = %v, want %v", tt.spec, tt.marker, got, tt.want)
		}
	}
}

func TestExtractDataSource_NextLine(t *testing.T) {
	lines := []string{"Data source", "", "Documents,Records, Onsite visit"}
	if got := extractDataSource(lines); got != "Documents, Records, Onsite visit" {
		t.Errorf("extractDataSource = %q", got)
	}
}
