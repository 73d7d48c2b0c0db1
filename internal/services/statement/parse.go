// Package statement extracts and reconciles pension fund statements
package statement

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper removes combining marks so keyword matching works however
// the PDF happens to encode accented text.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeText(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// parseDecimal reads a Brazilian-formatted number: dots group thousands and
// the comma marks the decimal place ("1.234,5678" -> 1234.5678).
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseMonth reads a MM/YYYY anchor into the first day of that month, UTC.
func parseMonth(s string) (time.Time, error) {
	return time.Parse("01/2006", s)
}

// parseDate reads a DD/MM/YYYY date, UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse("02/01/2006", s)
}

// monthKey formats a date the way the profitability table keys its months.
func monthKey(t time.Time) string {
	return t.Format("01/2006")
}
