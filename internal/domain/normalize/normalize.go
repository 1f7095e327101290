// Package normalize converts raw scalar strings from heterogeneous sources
// into canonical typed values. All functions are pure and never return an
// error: an unparseable date becomes the zero time and an unparseable amount
// becomes NaN, so downstream logic can treat them as "unknown".
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Strict layouts tried before the day-first fallback. Slash-separated
// day-first dates are deliberately not here; they go through dayFirstRe so
// "05/03/2024" reads as the 5th of March, not May 3rd.
var strictLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// dayFirstRe matches D/M/YYYY with 1-2 digit day and month and any of the
// separators "/", "-", ".".
var dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)

// ParseDate parses a calendar date, trying strict layouts first and falling
// back to day-first D/M/YYYY. Returns the zero time when nothing matches or
// the resulting date is invalid (month 13, day 32, ...).
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	m := dayFirstRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (month 13 becomes January of the next
	// year), so an invalid input is detected by the round-trip changing.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}
	}
	return t
}

// FormatDate renders a date in canonical YYYY-MM-DD form, or "" for the zero
// time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseAmount parses a currency-ish string into a float64. Everything except
// digits, "." and "-" is stripped, and any decimal point after the first is
// dropped to tolerate thousand-separator confusion ("1.234.56" -> 1234.56 is
// not attempted; the first point wins). Returns NaN when the remainder is not
// a valid number.
func ParseAmount(s string) float64 {
	var b strings.Builder
	seenPoint := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '.':
			if !seenPoint {
				seenPoint = true
				b.WriteRune(r)
			}
		}
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(n, 0) {
		return math.NaN()
	}
	return n
}

// FieldKey canonicalizes a column or attribute name: lower-cased with all
// whitespace and non-alphanumeric characters removed, so "No. Factura",
// "no_factura" and "NoFactura" all address the same field.
func FieldKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DaysBetween returns the absolute difference between two dates in whole
// days, rounded to the nearest day.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(math.Abs(a.Sub(b).Hours() / 24)))
}
