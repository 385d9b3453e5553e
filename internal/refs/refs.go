// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs composes hierarchical reference identifiers once
// extraction has finalized all inputs. It performs no text parsing.
package refs

import "strings"

// Element composes an element reference from the report source, the
// effective year, and the standard and element indices:
//
//	"NCQA Health Plan Standards, 2025, QI 1, Element A"
func Element(source, effectiveDate, standardIndex, elementIndex string) string {
	return strings.Join([]string{source, Year(effectiveDate), standardIndex, elementIndex}, ", ")
}

// Factor extends an element reference with the factor label.
func Factor(elementRef, factorLabel string) string {
	return elementRef + ", " + factorLabel
}

// Year returns the leading year component of an ISO date, or "" for an
// empty date.
func Year(effectiveDate string) string {
	year, _, _ := strings.Cut(effectiveDate, "-")
	return year
}
