// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract parses each element's raw body into typed fields:
// scoring, data source, explanation span, must-pass flag, and the
// factor list. Every missing marker yields an empty field plus a
// diagnostic, never an error; malformed reports still produce partial
// rows for manual review.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/standards-engine/pkg/types"
)

var (
	// sectionMarker matches the start of any recognized element section,
	// terminating whichever span is being captured.
	sectionMarker = regexp.MustCompile(`(?i)^(?:Scoring|Data source|Scope of|Documentation|Look-back|Explanation|Factor\s+\d+:|Exceptions|Related information|Examples)\b`)

	// summaryMarker matches "Summary of Changes" heading variants,
	// tolerant of leading bullet characters and an intervening word
	// (e.g. "Summary of 2025 Changes").
	summaryMarker = regexp.MustCompile(`(?i)^[\s•·*\-–—]*Summary of (?:\S+\s+)?Changes\b`)

	// explanationStart matches the Explanation marker, capturing any
	// inline text after it.
	explanationStart = regexp.MustCompile(`(?i)^Explanation\b[:.]?\s*(.*)$`)
	examplesMarker   = regexp.MustCompile(`(?i)^Examples\b`)

	mustPassToken = "MUST-PASS"
)

// markerLine reports whether line is the given section marker, either
// bare ("Scoring") or with an inline value ("Scoring: Full credit"),
// and returns the inline remainder.
func markerLine(line, marker string) (rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(marker) || !strings.EqualFold(trimmed[:len(marker)], marker) {
		return "", false
	}
	tail := strings.TrimSpace(trimmed[len(marker):])
	if tail == "" {
		return "", true
	}
	if strings.HasPrefix(tail, ":") {
		return strings.TrimSpace(tail[1:]), true
	}
	return "", false
}

// Document populates the typed fields of every element in the tree and
// materializes factor nodes. Raw bodies are cleared afterwards.
func Document(doc *types.Document) {
	for ai := range doc.FunctionalAreas {
		area := &doc.FunctionalAreas[ai]
		for si := range area.Standards {
			std := &area.Standards[si]
			for ei := range std.Elements {
				el := &std.Elements[ei]
				annotate(el, doc, std.Index+" / "+el.Index)
			}
		}
	}
}

func annotate(el *types.Element, doc *types.Document, context string) {
	lines := strings.Split(el.RawBody, "\n")

	el.Scoring = extractScoring(lines)
	if el.Scoring == "" {
		doc.Diag(types.DiagMissingMarker, el.Page, context, "no Scoring section")
	}

	el.DataSource = extractDataSource(lines)
	if el.DataSource == "" {
		doc.Diag(types.DiagMissingMarker, el.Page, context, "no Data source line")
	}

	el.Explanation = explanationSpan(lines)
	if el.Explanation == "" {
		doc.Diag(types.DiagMissingMarker, el.Page, context, "no Explanation section")
	}

	el.MustPass = checkMustPass(el.Explanation)

	factorsText := factorsSpan(lines)
	el.FactorsText = flatten(factorsText)

	markers := factorMarkers(factorsText)
	el.NumFactors = len(markers)
	el.Factors = buildFactors(factorsText, el.Explanation, markers)

	if el.NumFactors != len(el.Factors) {
		doc.Diag(types.DiagFactorCountMismatch, el.Page, context,
			fmt.Sprintf("counted %d factor headings but parsed %d factors", el.NumFactors, len(el.Factors)))
	}

	el.RawBody = ""
}

// extractScoring captures the span between the Scoring marker line and
// the next recognized section marker, formatted into the structured
// scoring JSON when the Met/Partially Met/Not Met shape is present.
func extractScoring(lines []string) string {
	start := -1
	var span []string
	for i, l := range lines {
		if rest, ok := markerLine(l, "Scoring"); ok {
			start = i + 1
			if rest != "" {
				span = append(span, rest)
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	for _, l := range lines[start:] {
		trimmed := strings.TrimSpace(l)
		if sectionMarker.MatchString(trimmed) || summaryMarker.MatchString(trimmed) {
			break
		}
		span = append(span, l)
	}

	text := strings.TrimSpace(strings.Join(span, "\n"))
	if text == "" {
		return ""
	}
	return formatScoring(text)
}

// extractDataSource returns the comma-separated sources on the line
// following the "Data source" marker, rejoined with ", ".
func extractDataSource(lines []string) string {
	for i, l := range lines {
		rest, ok := markerLine(l, "Data source")
		if !ok {
			continue
		}
		if rest != "" {
			return joinSources(rest)
		}
		for _, next := range lines[i+1:] {
			if next = strings.TrimSpace(next); next != "" {
				return joinSources(next)
			}
		}
		return ""
	}
	return ""
}

// joinSources normalizes a comma-separated source list.
func joinSources(line string) string {
	var sources []string
	for _, p := range strings.Split(line, ",") {
		if p = strings.TrimSpace(p); p != "" {
			sources = append(sources, p)
		}
	}
	return strings.Join(sources, ", ")
}

// explanationSpan returns the element explanation: the text between the
// Explanation and Examples markers. When the body has no Explanation
// marker the span falls back to start-of-body up to the Summary of
// Changes marker, or the whole body when that is also absent.
func explanationSpan(lines []string) string {
	start := -1
	var span []string
	for i, l := range lines {
		if m := explanationStart.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			start = i + 1
			if m[1] != "" {
				span = append(span, m[1])
			}
			break
		}
	}
	if start < 0 {
		// No Explanation section; fall back to the body up to the
		// Summary of Changes marker.
		for _, l := range lines {
			if summaryMarker.MatchString(strings.TrimSpace(l)) {
				break
			}
			span = append(span, l)
		}
		return strings.TrimSpace(strings.Join(span, "\n"))
	}

	for _, l := range lines[start:] {
		trimmed := strings.TrimSpace(l)
		if examplesMarker.MatchString(trimmed) || summaryMarker.MatchString(trimmed) {
			break
		}
		span = append(span, l)
	}
	return strings.TrimSpace(strings.Join(span, "\n"))
}

// factorsSpan returns the intro sentence and factor list: the body text
// before the first recognized section marker or the Summary of Changes
// heading, whichever comes first.
func factorsSpan(lines []string) string {
	var span []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if summaryMarker.MatchString(trimmed) || sectionMarker.MatchString(trimmed) {
			break
		}
		span = append(span, l)
	}
	return strings.TrimSpace(strings.Join(span, "\n"))
}

// checkMustPass reports whether the explanation span carries the
// MUST-PASS token, case-insensitively.
func checkMustPass(explanation string) bool {
	return strings.Contains(strings.ToUpper(explanation), mustPassToken)
}

// flatten collapses a multi-line span to a single line.
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
