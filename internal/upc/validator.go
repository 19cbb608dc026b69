// Package upc classifies and validates retail query strings: a
// structured UPC-A/UPC-E barcode, or a free-text descriptor.
package upc

import (
	"errors"
	"strings"

	"priceadvisor/internal/domain"
)

// ErrEmptyQuery is returned for an empty or whitespace-only input.
var ErrEmptyQuery = errors.New("query is empty")

// Classify strips whitespace and dashes from raw, checksum-validates it
// as UPC-A (12 digits) or UPC-E (8 digits), and falls back to
// free-text classification otherwise.
//
// UPC-E validation here applies the UPC-A modulo-10 check digit rule
// directly to the 8-digit string rather than expanding UPC-E to its
// canonical UPC-A form first. This is a known simplification — flagged,
// not silently corrected; see DESIGN.md.
func Classify(raw string) (domain.Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Query{}, ErrEmptyQuery
	}

	stripped := stripSeparators(trimmed)

	if isAllDigits(stripped) && (len(stripped) == 12 || len(stripped) == 8) && checksumValid(stripped) {
		return domain.Query{
			Raw:       raw,
			Kind:      domain.QueryKindUPC,
			Canonical: stripped,
		}, nil
	}

	return domain.Query{
		Raw:       raw,
		Kind:      domain.QueryKindFreeText,
		Canonical: trimmed,
	}, nil
}

// stripSeparators removes whitespace and dashes, the only separators
// the spec calls out.
func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '-' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checksumValid applies the UPC-A modulo-10 rule: sum(3x odd-position
// digits) + sum(even-position digits) ≡ 0 (mod 10), positions 1-indexed
// from the left, last digit is the check digit. Applied as-is to
// 8-digit UPC-E strings per the spec's acknowledged simplification.
func checksumValid(digits string) bool {
	sum := 0
	for i, r := range digits {
		d := int(r - '0')
		position := i + 1
		if position%2 != 0 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return sum%10 == 0
}
