package util

import (
	"strings"
	"unicode"
)

// SanitizeToken reduces an arbitrary identifier to a filesystem-safe path
// component: letters, digits, '-' and '_' pass through, every other rune
// becomes '_', and leading/trailing underscores are trimmed. Empty input
// sanitizes to "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	token := strings.Trim(b.String(), "_")
	if token == "" {
		return "unknown"
	}
	return token
}
