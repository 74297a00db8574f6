// Package utils holds small helpers shared across packages.
package utils

import "strings"

// SplitAndTrim splits a string by sep and trims whitespace from each
// part, dropping empties.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Truncate shortens s to max runes, appending "..." when cut.
// Counting runes keeps multi-byte characters intact.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
