package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares rendered element text for comparison: NFC
// composition, then every run of Unicode whitespace (including NBSP)
// collapsed to a single space and the result trimmed.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsText reports whether the normalized form of s contains the
// normalized form of substr.
func ContainsText(s, substr string) bool {
	return strings.Contains(NormalizeText(s), NormalizeText(substr))
}
