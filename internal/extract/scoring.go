// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// scoringEntry is one scoring category in the formatted breakdown.
type scoringEntry struct {
	Description   string `json:"description"`
	MinNumFactors *int   `json:"min_num_factors,omitempty"`
	MaxNumFactors *int   `json:"max_num_factors,omitempty"`
}

// scoringBreakdown fixes the category order in the emitted JSON.
type scoringBreakdown struct {
	Met          scoringEntry `json:"met"`
	PartiallyMet scoringEntry `json:"partially_met"`
	NotMet       scoringEntry `json:"not_met"`
}

var (
	// descStart matches the opening of a scoring description. Reports
	// phrase these a handful of ways.
	descStart = regexp.MustCompile(`(?im)^(?:The organization|The description|No scoring|An average|High|Medium|Low)\b.*`)

	// factorRange pulls "5 factors" or "3-4 factors" out of a description.
	factorRange = regexp.MustCompile(`(?i)(\d+)(?:-(\d+))?\s*factors?`)
)

// formatScoring structures a raw scoring span into the three-category
// JSON breakdown. The span lists the category headers (Met, Partially
// Met, Not Met) followed by one description each, in order. When the
// shape is not recognized the raw span is returned untouched so the row
// still carries the source text.
func formatScoring(text string) string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	notMet := -1
	for i, l := range lines {
		if strings.EqualFold(l, "Not Met") {
			notMet = i
			break
		}
	}
	if notMet < 0 || notMet+1 >= len(lines) {
		return text
	}

	descBlock := strings.Join(lines[notMet+1:], "\n")
	locs := descStart.FindAllStringIndex(descBlock, -1)
	if len(locs) < 3 {
		return text
	}

	descs := make([]string, 3)
	for i := 0; i < 3; i++ {
		end := len(descBlock)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		descs[i] = flatten(descBlock[locs[i][0]:end])
	}

	breakdown := scoringBreakdown{
		Met:          entry(descs[0]),
		PartiallyMet: entry(descs[1]),
		NotMet:       entry(descs[2]),
	}

	out, err := json.MarshalIndent(breakdown, "", "    ")
	if err != nil {
		return text
	}
	return string(out)
}

func entry(desc string) scoringEntry {
	e := scoringEntry{Description: desc}
	m := factorRange.FindStringSubmatch(desc)
	if m == nil {
		return e
	}
	lo, _ := strconv.Atoi(m[1])
	hi := lo
	if m[2] != "" {
		hi, _ = strconv.Atoi(m[2])
	}
	e.MinNumFactors, e.MaxNumFactors = &lo, &hi
	return e
}
