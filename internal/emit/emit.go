// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit denormalizes a finished document tree into flat rows and
// appends them to the output CSV. Row order follows document order:
// functional area → standard → element → factor.
package emit

import (
	"github.com/pdiddy/standards-engine/internal/refs"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// Rows traverses the document and emits one row per factor, inheriting
// all ancestor fields. An element with no factors emits a single row
// with empty factor fields (the flattened factor-list text stands in as
// the description so nothing is lost for manual review).
func Rows(doc *types.Document) []types.Row {
	var rows []types.Row
	for _, area := range doc.FunctionalAreas {
		for _, std := range area.Standards {
			for _, el := range std.Elements {
				rows = append(rows, elementRows(doc, area, std, el)...)
			}
		}
	}
	return rows
}

func elementRows(doc *types.Document, area types.FunctionalArea, std types.Standard, el types.Element) []types.Row {
	elemRef := refs.Element(doc.Source, doc.EffectiveDate, std.Index, el.Index)

	base := types.Row{
		Source:             doc.Source,
		FunctionalArea:     area.Title,
		StandardIndex:      std.Index,
		StandardTitle:      std.Title,
		ElementIndex:       el.Index,
		ElementTitle:       el.Title,
		ElementScoring:     el.Scoring,
		ElementDataSource:  el.DataSource,
		ElementMustPass:    el.MustPass,
		ElementExplanation: el.Explanation,
		ElementNumFactors:  el.NumFactors,
		ElementReference:   elemRef,
		EffectiveDate:      doc.EffectiveDate,
		UpdatedAt:          doc.UpdatedAt,
	}

	if len(el.Factors) == 0 {
		row := base
		row.FactorDescription = el.FactorsText
		row.FactorReference = elemRef
		return []types.Row{row}
	}

	rows := make([]types.Row, 0, len(el.Factors))
	for _, f := range el.Factors {
		row := base
		row.FactorIndex = f.Index
		row.FactorTitle = f.Title
		row.FactorDescription = f.Description
		row.FactorExplanation = f.Explanation
		critical := f.Critical
		row.FactorCritical = &critical
		row.FactorReference = refs.Factor(elemRef, f.Label)
		rows = append(rows, row)
	}
	return rows
}
