package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// stripWhitespace removes every whitespace rune, not just the edges. Parsed
// values are stored without any embedded whitespace.
func stripWhitespace(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// checkLength collects every length violation for a whitespace-stripped
// value. An empty value always fails, even when min is zero.
func checkLength(value string, min, max int) []string {
	var violations []string
	n := utf8.RuneCountInString(value)
	if n == 0 {
		violations = append(violations, "cannot be empty")
	}
	if min > 0 && n > 0 && n < min {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", min))
	}
	if n > max {
		violations = append(violations, fmt.Sprintf("must be at most %d characters", max))
	}
	return violations
}
