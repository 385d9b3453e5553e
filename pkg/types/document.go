// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DiagnosticKind categorizes a structural problem found while parsing a report.
type DiagnosticKind string

const (
	DiagDanglingSection     DiagnosticKind = "dangling-section"
	DiagFactorCountMismatch DiagnosticKind = "factor-count-mismatch"
	DiagMissingMarker       DiagnosticKind = "missing-marker"
	DiagEmptyPage           DiagnosticKind = "empty-page"
)

// Diagnostic records a recoverable structural issue with its provenance.
// Diagnostics never abort a document; affected fields default to empty.
type Diagnostic struct {
	// Kind categorizes the issue.
	Kind DiagnosticKind `json:"kind" yaml:"kind"`

	// Page is the source page where the issue was observed (0 if unknown).
	Page int `json:"page" yaml:"page"`

	// Context names the enclosing section, e.g. "QI 1 / Element A".
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// Detail is a human-readable description.
	Detail string `json:"detail" yaml:"detail"`
}

// Document is the parsed section tree for one accreditation report.
// It is built bottom-up during segmentation, annotated by extraction,
// and discarded after row emission.
type Document struct {
	// Source is the report family label (e.g. "NCQA Health Plan Standards").
	Source string `json:"source" yaml:"source"`

	// EffectiveDate is the survey effective date in ISO form (YYYY-MM-DD).
	// Empty when the report carries no recognizable effective-date line.
	EffectiveDate string `json:"effective_date" yaml:"effective_date"`

	// UpdatedAt is the parse date in ISO form.
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`

	// FunctionalAreas holds the top-level groupings in document order.
	FunctionalAreas []FunctionalArea `json:"functional_areas" yaml:"functional_areas"`

	// Diagnostics accumulates structural issues found during parsing.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Diag appends a diagnostic to the document.
func (d *Document) Diag(kind DiagnosticKind, page int, context, detail string) {
	d.Diagnostics = append(d.Diagnostics, Diagnostic{Kind: kind, Page: page, Context: context, Detail: detail})
}

// FunctionalArea is a top-level grouping of standards (e.g. "Quality
// Management and Improvement").
type FunctionalArea struct {
	Title     string     `json:"title" yaml:"title"`
	Standards []Standard `json:"standards" yaml:"standards"`
}

// Standard is a named requirement group containing one or more elements.
type Standard struct {
	// Index is the standard identifier before the colon (e.g. "QI 1").
	Index string `json:"index" yaml:"index"`

	// Title is the text after the colon in the standard heading.
	Title string `json:"title" yaml:"title"`

	Elements []Element `json:"elements" yaml:"elements"`
}

// Element is a scored requirement unit within a standard.
type Element struct {
	// Index is the element identifier (e.g. "Element A").
	Index string `json:"index" yaml:"index"`

	// Title is the text after the colon in the element heading.
	Title string `json:"title" yaml:"title"`

	// RawBody is the unparsed body text accumulated during segmentation.
	// Cleared once extraction has populated the typed fields.
	RawBody string `json:"-" yaml:"-"`

	// Page is the source page where the element heading appeared.
	Page int `json:"page" yaml:"page"`

	// Scoring is the scoring section formatted as a JSON object, or the
	// raw scoring text when the Met/Partially Met/Not Met shape is not
	// recognized. Empty when the Scoring marker is absent.
	Scoring string `json:"scoring" yaml:"scoring"`

	// DataSource lists the element's data sources, comma-joined.
	DataSource string `json:"data_source" yaml:"data_source"`

	// Explanation is the element explanation span.
	Explanation string `json:"explanation" yaml:"explanation"`

	// MustPass reports whether the explanation carries the MUST-PASS token.
	MustPass bool `json:"must_pass" yaml:"must_pass"`

	// NumFactors is the number of factor headings counted in the body.
	// Cross-checked against len(Factors); a mismatch is diagnosed.
	NumFactors int `json:"num_factors" yaml:"num_factors"`

	// FactorsText is the flattened factor-list text, used as the
	// description on the single emitted row when the element has no factors.
	FactorsText string `json:"-" yaml:"-"`

	Factors []Factor `json:"factors" yaml:"factors"`
}

// Factor is a sub-criterion of an element, optionally critical.
type Factor struct {
	// Index is the heading marker without its trailing dot ("1", "2", "A").
	Index string `json:"index" yaml:"index"`

	// Label is the display form used in references and explanation
	// look-ups ("Factor 1" for numeric indices, the bare letter otherwise).
	Label string `json:"label" yaml:"label"`

	// Title is the short factor title.
	Title string `json:"title" yaml:"title"`

	// Description is the intro sentence joined with the factor's own text.
	Description string `json:"description" yaml:"description"`

	// Explanation is the factor-specific span of the element explanation.
	Explanation string `json:"explanation" yaml:"explanation"`

	// Critical reports whether the factor is marked critical.
	Critical bool `json:"critical" yaml:"critical"`
}
