package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ExtractHost returns the host name of rawURL without port.
func ExtractHost(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Hostname(), nil
}

var invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\s]+`)

// CleanFileName removes invalid characters from a filename
func CleanFileName(name string) string {
	cleaned := invalidFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "._")

	if r := []rune(cleaned); len(r) > 200 {
		cleaned = string(r[:200])
	}
	if cleaned == "" {
		cleaned = "output"
	}
	return cleaned
}

// TruncateString shortens s to at most maxLen runes, marking the cut with
// "..." when there is room for it.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
