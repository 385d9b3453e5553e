// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import "regexp"

// Kind classifies a normalized line during the forward scan.
type Kind int

const (
	KindBody Kind = iota
	KindBlank
	KindStandard
	KindElement
	KindFactor
	KindEffectiveDate
)

// String returns the rule name for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindStandard:
		return "standard-heading"
	case KindElement:
		return "element-heading"
	case KindFactor:
		return "factor-heading"
	case KindEffectiveDate:
		return "effective-date"
	default:
		return "body"
	}
}

// Rule pairs a heading kind with its full-line predicate. Rules are kept
// as an ordered list, deepest section kind first, so precedence is
// auditable: a line matching several patterns takes the first hit.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
}

var (
	// factorPattern matches a factor list marker at paragraph start:
	// "1. ...", "12. ...", or a lettered variant "A. ...".
	factorPattern = regexp.MustCompile(`^(\d{1,2}|[A-Z])\.\s+\S`)

	// elementPattern matches element headings like "Element A: Program
	// Structure". A double letter carries a struck-through revision
	// prefix; the index keeps the final letter.
	elementPattern = regexp.MustCompile(`^Element\s+[A-Z]{1,2}:\s+\S`)

	// standardPattern matches standard headings like "QI 1: ..." or
	// "CC 10.2: ...": 2-4 capitals, a number, optional sub-identifiers,
	// then a colon.
	standardPattern = regexp.MustCompile(`^[A-Z]{2,4}\s*\d+[A-Z0-9.: -]*:`)

	// effectiveDatePattern captures the survey effective date, e.g.
	// "Effective for Surveys On or After July 1, 2025".
	effectiveDatePattern = regexp.MustCompile(`(?i)Effective for Surveys On or After\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
)

// rules is the ordered classification list. Factor markers sit above
// element and standard headings per the deepest-first convention; the
// patterns are mutually exclusive on real report text, so the order
// only matters for pathological lines.
var rules = []Rule{
	{KindFactor, factorPattern},
	{KindElement, elementPattern},
	{KindStandard, standardPattern},
	{KindEffectiveDate, effectiveDatePattern},
}

// Classify returns the kind of a normalized non-blank line.
func Classify(text string) Kind {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r.Kind
		}
	}
	return KindBody
}
