package utils

import (
	"strconv"
	"strings"
)

// FormatPrice normalizes a matched price string into display form:
// thousands separators are stripped, the value is truncated to an integer
// and reformatted as "$" plus comma-grouped digits ("450000" -> "$450,000").
// If the string does not parse as a number, the raw digits are kept with a
// "$" prefix so the value is never silently dropped.
func FormatPrice(raw string) string {
	cleaned := strings.ReplaceAll(raw, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "$" + raw
	}
	return "$" + groupThousands(int64(value))
}

// groupThousands inserts comma separators into a non-negative integer
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
