// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment classifies normalized lines into section boundaries
// and builds the document tree: functional area → standard → element.
// A single forward scan with explicit open-section state is sufficient
// because headings strictly nest and never interleave. Factor markers
// stay inside the element body; the extractor materializes Factor
// nodes because factor text interleaves with element-level marker
// sections (Scoring, Data source, Explanation).
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/standards-engine/internal/normalize"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// preambleNoise filters boilerplate out of the functional-area title
// lines that precede the first standard heading.
var preambleNoise = regexp.MustCompile(`(?i)Effective for Surveys On or After|Standards and Guidelines|HP Standards|NCQA`)

// Document walks the normalized line stream and populates doc with its
// functional area, standards, and elements. Element bodies are left raw
// for the extractor. Structural anomalies become diagnostics; the
// offending line folds into the nearest open ancestor.
func Document(lines []normalize.Line, doc *types.Document) {
	s := scanner{doc: doc}
	for _, line := range lines {
		s.feed(line)
	}
	s.finish()
}

type scanner struct {
	doc *types.Document

	area     *types.FunctionalArea
	standard *types.Standard
	element  *types.Element

	// preamble collects title text seen before the first standard heading.
	preamble []string

	// body buffers the open element's raw lines.
	body []string
}

func (s *scanner) feed(line normalize.Line) {
	if line.Blank {
		if s.element != nil && len(s.body) > 0 && s.body[len(s.body)-1] != "" {
			s.body = append(s.body, "")
		}
		return
	}

	switch Classify(line.Text) {
	case KindEffectiveDate:
		if s.doc.EffectiveDate == "" {
			s.doc.EffectiveDate = parseEffectiveDate(line.Text)
		}
		// The date line doubles as page boilerplate; never body text.

	case KindStandard:
		index, title := splitHeading(line.Text)
		if s.standard != nil && s.standard.Index == index {
			// Running continuation of the open standard across pages.
			return
		}
		s.closeElement()
		s.closeStandard()
		s.openArea()
		s.standard = &types.Standard{Index: index, Title: title}

	case KindElement:
		if s.standard == nil {
			s.doc.Diag(types.DiagDanglingSection, line.Page, "",
				fmt.Sprintf("element heading %q with no open standard", line.Text))
			s.bodyLine(line.Text)
			return
		}
		s.closeElement()
		index, title := splitElementHeading(line.Text)
		s.element = &types.Element{Index: index, Title: title, Page: line.Page}

	case KindFactor:
		if s.element == nil {
			context := ""
			if s.standard != nil {
				context = s.standard.Index
			}
			s.doc.Diag(types.DiagDanglingSection, line.Page, context,
				fmt.Sprintf("factor heading %q with no open element", line.Text))
		}
		s.bodyLine(line.Text)

	default:
		s.bodyLine(line.Text)
	}
}

// bodyLine accumulates text on the innermost open node: the element
// body when one is open, otherwise the functional-area preamble before
// the first standard. Text inside a standard but before its first
// element is page furniture and is dropped.
func (s *scanner) bodyLine(text string) {
	switch {
	case s.element != nil:
		s.body = append(s.body, text)
	case s.standard == nil:
		if !preambleNoise.MatchString(text) {
			s.preamble = append(s.preamble, text)
		}
	}
}

func (s *scanner) openArea() {
	if s.area != nil {
		return
	}
	title := strings.Join(strings.Fields(strings.Join(s.preamble, " ")), " ")
	s.area = &types.FunctionalArea{Title: title}
}

func (s *scanner) closeElement() {
	if s.element == nil {
		return
	}
	s.element.RawBody = strings.TrimSpace(strings.Join(s.body, "\n"))
	s.standard.Elements = append(s.standard.Elements, *s.element)
	s.element = nil
	s.body = nil
}

func (s *scanner) closeStandard() {
	if s.standard == nil {
		return
	}
	s.area.Standards = append(s.area.Standards, *s.standard)
	s.standard = nil
}

func (s *scanner) finish() {
	s.closeElement()
	s.closeStandard()
	if s.area != nil {
		s.doc.FunctionalAreas = append(s.doc.FunctionalAreas, *s.area)
	}
}

// splitHeading splits "QI 1: Program Structure" into index and title.
func splitHeading(text string) (index, title string) {
	parts := strings.SplitN(text, ":", 2)
	index = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		title = strings.TrimSpace(parts[1])
	}
	return index, title
}

// splitElementHeading splits an element heading into index and title.
// A double-letter index like "Element AB" carries a struck-through
// revision letter; only the final letter identifies the element.
func splitElementHeading(text string) (index, title string) {
	index, title = splitHeading(text)
	fields := strings.Fields(index)
	if len(fields) == 2 && len(fields[1]) == 2 {
		index = fields[0] + " " + fields[1][1:]
	}
	return index, title
}

// parseEffectiveDate converts the captured date to ISO form. Returns ""
// when the capture does not parse as a real date.
func parseEffectiveDate(text string) string {
	m := effectiveDatePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	t, err := time.Parse("January 2, 2006", strings.Join(strings.Fields(m[1]), " "))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
