package domain

import "strings"

// normalizeKey lowercases and collapses whitespace, the canonical form
// used as a cache and index key.
func normalizeKey(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, " ")
}
