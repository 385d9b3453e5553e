// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestRecordMatchesColumns(t *testing.T) {
	critical := true
	row := Row{
		Source:          "NCQA Health Plan Standards",
		StandardIndex:   "QI 1",
		ElementIndex:    "Element A",
		ElementMustPass: true,
		FactorCritical:  &critical,
	}

	rec := row.Record()
	if len(rec) != len(Columns) {
		t.Fatalf("Record has %d cells, Columns has %d", len(rec), len(Columns))
	}
	if rec[8] != "true" {
		t.Errorf("element_must_pass cell = %q, want \"true\"", rec[8])
	}
	if rec[16] != "true" {
		t.Errorf("factor_critical cell = %q, want \"true\"", rec[16])
	}
}

func TestRecordNilCritical(t *testing.T) {
	rec := Row{}.Record()
	if rec[16] != "" {
		t.Errorf("factor_critical cell = %q, want empty for nil flag", rec[16])
	}
	if rec[8] != "false" {
		t.Errorf("element_must_pass cell = %q, want \"false\"", rec[8])
	}
}

func TestDiag(t *testing.T) {
	var doc Document
	doc.Diag(DiagMissingMarker, 4, "QI 1 / Element A", "no Scoring section")

	if len(doc.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(doc.Diagnostics))
	}
	d := doc.Diagnostics[0]
	if d.Kind != DiagMissingMarker || d.Page != 4 || d.Context != "QI 1 / Element A" {
		t.Errorf("diagnostic = %+v", d)
	}
}
