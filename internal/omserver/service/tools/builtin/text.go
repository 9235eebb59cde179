package builtin

import (
	"unicode/utf8"
)

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence and
// appends marker when anything was cut.
func truncate(s string, limit int, marker string) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}
