// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// Row is the flat emission unit: one row per factor, or one row per
// element when the element has no factors. Field order mirrors Columns.
type Row struct {
	Source             string `json:"source" yaml:"source"`
	FunctionalArea     string `json:"functional_area" yaml:"functional_area"`
	StandardIndex      string `json:"standard_index" yaml:"standard_index"`
	StandardTitle      string `json:"standard_title" yaml:"standard_title"`
	ElementIndex       string `json:"element_index" yaml:"element_index"`
	ElementTitle       string `json:"element_title" yaml:"element_title"`
	ElementScoring     string `json:"element_scoring" yaml:"element_scoring"`
	ElementDataSource  string `json:"element_data_source" yaml:"element_data_source"`
	ElementMustPass    bool   `json:"element_must_pass" yaml:"element_must_pass"`
	ElementExplanation string `json:"element_explanation" yaml:"element_explanation"`
	ElementNumFactors  int    `json:"element_num_factors" yaml:"element_num_factors"`
	ElementReference   string `json:"element_reference" yaml:"element_reference"`
	FactorIndex        string `json:"factor_index" yaml:"factor_index"`
	FactorTitle        string `json:"factor_title" yaml:"factor_title"`
	FactorDescription  string `json:"factor_description" yaml:"factor_description"`
	FactorExplanation  string `json:"factor_explanation" yaml:"factor_explanation"`
	// FactorCritical is nil on element-only rows, where the CSV cell is empty.
	FactorCritical  *bool  `json:"factor_critical" yaml:"factor_critical"`
	FactorReference string `json:"factor_reference" yaml:"factor_reference"`
	EffectiveDate   string `json:"effective_date" yaml:"effective_date"`
	UpdatedAt       string `json:"updated_at" yaml:"updated_at"`
}

// Columns is the fixed CSV column schema, in emission order.
var Columns = []string{
	"source", "functional_area", "standard_index", "standard_title",
	"element_index", "element_title", "element_scoring", "element_data_source",
	"element_must_pass", "element_explanation", "element_num_factors",
	"element_reference", "factor_index", "factor_title", "factor_description",
	"factor_explanation", "factor_critical", "factor_reference",
	"effective_date", "updated_at",
}

// Record renders the row as CSV cells in Columns order. Booleans render
// as "true"/"false"; a nil FactorCritical renders as the empty string.
func (r Row) Record() []string {
	critical := ""
	if r.FactorCritical != nil {
		critical = strconv.FormatBool(*r.FactorCritical)
	}
	return []string{
		r.Source, r.FunctionalArea, r.StandardIndex, r.StandardTitle,
		r.ElementIndex, r.ElementTitle, r.ElementScoring, r.ElementDataSource,
		strconv.FormatBool(r.ElementMustPass), r.ElementExplanation,
		strconv.Itoa(r.ElementNumFactors), r.ElementReference,
		r.FactorIndex, r.FactorTitle, r.FactorDescription, r.FactorExplanation,
		critical, r.FactorReference, r.EffectiveDate, r.UpdatedAt,
	}
}
