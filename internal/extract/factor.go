// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/standards-engine/pkg/types"
)

var (
	// factorMarker matches a factor list marker at paragraph start and
	// captures it: "1.", "12.", or a lettered "A.".
	factorMarker = regexp.MustCompile(`(?m)^\s*(\d{1,2}|[A-Z])\.\s+`)

	// criticalFootnote is the footnote that gives trailing asterisks
	// their critical meaning.
	criticalFootnote = regexp.MustCompile(`(?mi)^\*Critical factors?\b`)

	// factorBlockSpec heads a factor-specific explanation block:
	// "Factor 3:", "Factors 2, 3", "Factor 2-4", "Factor A".
	factorBlockSpec = regexp.MustCompile(`^Factors?\s+([0-9A-Z][0-9A-Z,\s\-–—]*?)\s*(?::.*)?$`)

	// explEnd marks lines that close a factor explanation block without
	// opening a new one.
	explEnd = regexp.MustCompile(`(?i)^(?:Exceptions?|Related information)\b`)

	criticalPhrase = "Critical factor"
)

// factorMarkers returns the ordered heading markers found in the
// factors span, without their trailing dots.
func factorMarkers(factorsText string) []string {
	var markers []string
	for _, m := range factorMarker.FindAllStringSubmatch(factorsText, -1) {
		markers = append(markers, m[1])
	}
	return markers
}

// buildFactors assembles one Factor per heading marker. Field-level
// extraction failures leave empty fields; a factor is dropped only when
// its own block cannot be located at all.
func buildFactors(factorsText, explanation string, markers []string) []types.Factor {
	if len(markers) == 0 {
		return nil
	}

	intro := factorIntro(factorsText)
	blocks := splitFactorBlocks(factorsText, markers)
	explBlocks := explanationBlocks(explanation)
	footnote := criticalFootnote.MatchString(factorsText)

	var factors []types.Factor
	for i, marker := range markers {
		block := blocks[i]
		if block == "" {
			// A bare marker with no text parses as nothing; the caller
			// diagnoses the resulting count mismatch.
			continue
		}

		f := types.Factor{
			Index: marker,
			Label: factorLabel(marker),
		}

		f.Description = composeDescription(intro, block)
		f.Explanation = matchExplanation(explBlocks, marker)
		f.Title = factorTitle(explanation, block, marker)
		if f.Title == "" {
			f.Title = f.Description
		}
		f.Critical = isCritical(block, f.Explanation, footnote)

		factors = append(factors, f)
	}
	return factors
}

// factorLabel is the display form used in references and explanation
// look-ups: "Factor 1" for numeric markers, the bare letter otherwise.
func factorLabel(marker string) string {
	if marker[0] >= '0' && marker[0] <= '9' {
		return "Factor " + marker
	}
	return marker
}

// factorIntro returns the sentence preceding the first factor marker,
// with trailing punctuation stripped so it reads into each factor.
func factorIntro(factorsText string) string {
	loc := factorMarker.FindStringIndex(factorsText)
	if loc == nil {
		return ""
	}
	intro := flatten(factorsText[:loc[0]])
	return strings.TrimRight(intro, ":. ")
}

// splitFactorBlocks cuts the factors span into one text block per
// marker, each running to the next marker, the critical footnote, or
// the end of the span.
func splitFactorBlocks(factorsText string, markers []string) []string {
	locs := factorMarker.FindAllStringIndex(factorsText, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(factorsText)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := factorsText[loc[1]:end]
		if fn := criticalFootnote.FindStringIndex(block); fn != nil {
			block = block[:fn[0]]
		}
		blocks = append(blocks, strings.TrimSpace(block))
	}
	return blocks
}

// composeDescription joins the intro with the factor's own text so the
// description reads as one sentence.
func composeDescription(intro, block string) string {
	desc := flatten(block)
	if intro == "" {
		return desc
	}
	return intro + " " + desc
}

// factorTitle prefers the "Factor N: Title" line inside the element
// explanation, falling back to the factor's own heading text with any
// trailing period stripped.
func factorTitle(explanation, block, marker string) string {
	if label := factorLabel(marker); strings.HasPrefix(label, "Factor ") {
		re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(label) + `:\s*(.+)$`)
		if m := re.FindStringSubmatch(explanation); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title
			}
		}
	}

	title := strings.TrimSpace(strings.SplitN(block, "\n", 2)[0])
	title = strings.TrimSuffix(strings.TrimSuffix(title, "*"), ".")
	return strings.TrimSpace(title)
}

// explBlock is one factor-keyed span of the element explanation.
type explBlock struct {
	spec string
	text string
}

// explanationBlocks cuts the element explanation into factor-keyed
// blocks. A block starts at a "Factor(s) ..." line and runs to the next
// such line, an Exceptions or Related information marker, or the end.
func explanationBlocks(explanation string) []explBlock {
	lines := strings.Split(explanation, "\n")
	var blocks []explBlock
	var cur *explBlock
	var body []string

	flush := func() {
		if cur != nil {
			cur.text = flatten(strings.Join(body, "\n"))
			blocks = append(blocks, *cur)
		}
		cur = nil
		body = nil
	}

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if m := factorBlockSpec.FindStringSubmatch(trimmed); m != nil {
			flush()
			cur = &explBlock{spec: m[1]}
			continue
		}
		if explEnd.MatchString(trimmed) {
			flush()
			continue
		}
		body = append(body, l)
	}
	flush()
	return blocks
}

// matchExplanation joins the explanation blocks whose factor spec
// covers the given marker. Specs accept single indices ("3"), comma
// lists ("2, 3"), dash ranges ("2-4"), and letters ("A").
func matchExplanation(blocks []explBlock, marker string) string {
	var parts []string
	for _, b := range blocks {
		if specCovers(b.spec, marker) {
			parts = append(parts, b.text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func specCovers(spec, marker string) bool {
	spec = strings.NewReplacer(" ", "", "–", "-", "—", "-").Replace(spec)
	n, err := strconv.Atoi(marker)
	numeric := err == nil
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			continue
		}
		if part == marker {
			return true
		}
		if !numeric {
			continue
		}
		if lo, hi, ok := splitRange(part); ok && n >= lo && n <= hi {
			return true
		}
	}
	return false
}

func splitRange(part string) (lo, hi int, ok bool) {
	i := strings.IndexByte(part, '-')
	if i < 0 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(part[:i])
	hi, err2 := strconv.Atoi(part[i+1:])
	return lo, hi, err1 == nil && err2 == nil
}

// isCritical applies both critical conventions: a trailing asterisk on
// the factor's own block backed by the "*Critical factors" footnote, or
// a critical marker inside the factor's explanation span.
func isCritical(block, explanation string, footnotePresent bool) bool {
	if footnotePresent && strings.HasSuffix(strings.TrimSpace(block), "*") {
		return true
	}
	if strings.Contains(explanation, criticalPhrase) {
		return true
	}
	return strings.Contains(explanation, "*")
}
