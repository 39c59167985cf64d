package redact

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultMaxRunes bounds how much of a dropped row ends up in a log line.
const DefaultMaxRunes = 200

// Row renders fields for a log message: comma-joined, control characters
// escaped, clipped to maxRunes runes with a trailing ellipsis. maxRunes <= 0
// uses DefaultMaxRunes.
func Row(fields []string, maxRunes int) string {
	return Text(strings.Join(fields, ","), maxRunes)
}

// Text is Row for a single value.
func Text(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}

	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxRunes {
			b.WriteString("…")
			break
		}
		if unicode.IsControl(r) {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
		} else {
			b.WriteRune(r)
		}
		n++
	}
	return b.String()
}
