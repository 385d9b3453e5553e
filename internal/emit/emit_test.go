// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/standards-engine/pkg/types"
)

func testDocument() *types.Document {
	return &types.Document{
		Source:        "NCQA Health Plan Standards",
		EffectiveDate: "2025-07-01",
		UpdatedAt:     "2026-08-24",
		FunctionalAreas: []types.FunctionalArea{{
			Title: "Quality Management and Improvement",
			Standards: []types.Standard{{
				Index: "QI 1",
				Title: "Program Structure",
				Elements: []types.Element{
					{
						Index:      "Element A",
						Title:      "QI Program Structure",
						Scoring:    "Full credit",
						DataSource: "Documents",
						MustPass:   true,
						NumFactors: 2,
						Factors: []types.Factor{
							{Index: "1", Label: "Factor 1", Title: "Structure", Description: "The structure.", Critical: true},
							{Index: "2", Label: "Factor 2", Title: "Behavioral", Description: "Behavioral aspects.", Critical: false},
						},
					},
					{
						Index:       "Element B",
						Title:       "Annual Evaluation",
						FactorsText: "The organization evaluates the program annually.",
					},
				},
			}},
		}},
	}
}

func TestRows(t *testing.T) {
	doc := testDocument()
	rows := Rows(doc)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (two factors + one factorless element)", len(rows))
	}

	r0 := rows[0]
	if r0.FunctionalArea != "Quality Management and Improvement" {
		t.Errorf("functional area = %q", r0.FunctionalArea)
	}
	if r0.ElementReference != "NCQA Health Plan Standards, 2025, QI 1, Element A" {
		t.Errorf("element reference = %q", r0.ElementReference)
	}
	if r0.FactorReference != r0.ElementReference+", Factor 1" {
		t.Errorf("factor reference = %q", r0.FactorReference)
	}
	if r0.FactorCritical == nil || !*r0.FactorCritical {
		t.Error("factor 1 critical should be true")
	}
	if rows[1].FactorCritical == nil || *rows[1].FactorCritical {
		t.Error("factor 2 critical should be false")
	}

	// Every factor reference extends its element reference.
	for i, r := range rows {
		if !strings.HasPrefix(r.FactorReference, r.ElementReference) {
			t.Errorf("row %d: factor reference %q does not extend element reference %q",
				i, r.FactorReference, r.ElementReference)
		}
	}

	// The factorless element keeps its list text and element reference.
	r2 := rows[2]
	if r2.ElementIndex != "Element B" {
		t.Errorf("row 2 element = %q", r2.ElementIndex)
	}
	if r2.FactorIndex != "" || r2.FactorCritical != nil {
		t.Error("factorless row should have empty factor fields")
	}
	if r2.FactorDescription != "The organization evaluates the program annually." {
		t.Errorf("row 2 factor description = %q", r2.FactorDescription)
	}
	if r2.FactorReference != r2.ElementReference {
		t.Errorf("row 2 factor reference = %q, want element reference", r2.FactorReference)
	}
}

func TestAppendCSV_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	rows := Rows(testDocument())

	if err := AppendCSV(path, rows[:1]); err != nil {
		t.Fatal(err)
	}
	if err := AppendCSV(path, rows[1:]); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows after two appends, want %d", len(got), len(rows))
	}
}

func TestReadCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	rows := Rows(testDocument())

	if err := AppendCSV(path, rows); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}

	if got[0].ElementMustPass != true {
		t.Error("must-pass flag lost in round trip")
	}
	if got[0].ElementNumFactors != 2 {
		t.Errorf("num factors = %d, want 2", got[0].ElementNumFactors)
	}
	if got[0].FactorCritical == nil || !*got[0].FactorCritical {
		t.Error("critical flag lost in round trip")
	}
	if got[2].FactorCritical != nil {
		t.Error("empty critical column should read back as nil")
	}
	if got[0].EffectiveDate != "2025-07-01" || got[0].UpdatedAt != "2026-08-24" {
		t.Errorf("dates = %q / %q", got[0].EffectiveDate, got[0].UpdatedAt)
	}
}

func TestReadCSV_RejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Error("expected a header mismatch error")
	}
}
