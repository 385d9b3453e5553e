// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw per-page text into a single clean line
// stream for the whole document: whitespace collapse, dehyphenation of
// wrapped words, and removal of repeated page boilerplate. Blank lines
// survive as section-boundary hints.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/standards-engine/internal/pdftext"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// Line is one normalized text line with its page provenance.
type Line struct {
	// Text is the cleaned line content. Empty iff Blank.
	Text string

	// Page is the 1-based source page.
	Page int

	// Blank marks a preserved blank line.
	Blank bool
}

// Pages flattens the page sequence into a normalized line stream.
// Structural issues (empty pages) are diagnosed on doc and skipped.
func Pages(pages []pdftext.Page, doc *types.Document) []Line {
	cleaned := make([][]string, len(pages))
	for i, p := range pages {
		cleaned[i] = collapsePage(p.Lines)
	}

	boiler := boilerplate(cleaned)

	var out []Line
	for i, p := range pages {
		lines := cleaned[i]
		if usable(lines) == 0 {
			doc.Diag(types.DiagEmptyPage, p.Number, "", fmt.Sprintf("page %d yielded no usable text", p.Number))
			continue
		}
		for _, text := range lines {
			if text == "" {
				out = append(out, Line{Page: p.Number, Blank: true})
				continue
			}
			// Boilerplate repeats are dropped after their first sighting,
			// so a heading repeated as a running header still opens its
			// section once.
			if emitted, ok := boiler[text]; ok {
				if emitted {
					continue
				}
				boiler[text] = true
			}
			out = append(out, Line{Text: text, Page: p.Number})
		}
	}

	out = stitchHyphens(out)
	return collapseBlanks(out)
}

// collapsePage trims each line and collapses internal whitespace runs.
func collapsePage(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Join(strings.Fields(l), " ")
	}
	return out
}

// usable counts the non-blank lines on a page.
func usable(lines []string) int {
	n := 0
	for _, l := range lines {
		if l != "" {
			n++
		}
	}
	return n
}

// boilerplate finds running headers and footers by frequency: a line
// whose exact text appears on at least max(3, pages/2) distinct pages.
// The map value tracks whether the line has been emitted once already.
func boilerplate(pages [][]string) map[string]bool {
	if len(pages) < 3 {
		return map[string]bool{}
	}

	pageCount := make(map[string]int)
	for _, lines := range pages {
		seen := make(map[string]bool)
		for _, l := range lines {
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			pageCount[l]++
		}
	}

	threshold := len(pages) / 2
	if threshold < 3 {
		threshold = 3
	}

	boiler := make(map[string]bool)
	for text, n := range pageCount {
		if n >= threshold {
			boiler[text] = false
		}
	}
	return boiler
}

// stitchHyphens joins a line ending in a wrap hyphen with the following
// line when the continuation starts lowercase, including across page
// breaks and intervening blanks.
func stitchHyphens(lines []Line) []Line {
	var out []Line
	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		for !cur.Blank && endsHyphenated(cur.Text) {
			j := i + 1
			for j < len(lines) && lines[j].Blank {
				j++
			}
			if j >= len(lines) || !startsLower(lines[j].Text) {
				break
			}
			cur.Text = strings.TrimSuffix(cur.Text, "-") + lines[j].Text
			i = j
		}
		out = append(out, cur)
	}
	return out
}

func endsHyphenated(text string) bool {
	if len(text) < 2 || !strings.HasSuffix(text, "-") {
		return false
	}
	r := rune(text[len(text)-2])
	return unicode.IsLetter(r)
}

func startsLower(text string) bool {
	for _, r := range text {
		return unicode.IsLower(r)
	}
	return false
}

// collapseBlanks reduces runs of blank lines to a single blank and
// drops leading/trailing blanks.
func collapseBlanks(lines []Line) []Line {
	var out []Line
	for _, l := range lines {
		if l.Blank {
			if len(out) == 0 || out[len(out)-1].Blank {
				continue
			}
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1].Blank {
		out = out[:len(out)-1]
	}
	return out
}
