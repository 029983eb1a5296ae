package hxl

import (
	"strconv"
	"strings"
	"time"
)

// Shared scalar-value helpers used by the clean and sort filters and by the
// schema validation engine. All parsing is locale-independent.

// dateLayouts are the input layouts recognized when normalizing or
// validating date strings, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02/01/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2, 2006",
	"2006-01",
	"2006",
}

// ISODateLayout is the canonical output form for normalized dates.
const ISODateLayout = "2006-01-02"

// ParseNumber parses a decimal number, tolerating surrounding whitespace and
// thousands separators ("1,200").
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	return strconv.ParseFloat(s, 64)
}

// IsNumber reports whether the value parses as a decimal number.
func IsNumber(s string) bool {
	_, err := ParseNumber(s)
	return err == nil
}

// NormalizeNumber rewrites a numeric string to canonical decimal form:
// no thousands separators, no exponent, integers without a decimal point.
// The second return value is false when the input is not numeric.
func NormalizeNumber(s string) (string, bool) {
	n, err := ParseNumber(s)
	if err != nil {
		return s, false
	}
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10), true
	}
	return strconv.FormatFloat(n, 'f', -1, 64), true
}

// ParseDate parses a date string against the recognized layouts, in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDate reports whether the value parses as a date.
func IsDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// DateLayoutOf returns the first layout the value parses under, for
// consistent-format checks. Empty string when the value is not a date.
func DateLayoutOf(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return layout
		}
	}
	return ""
}

// NormalizeDate rewrites a recognized date string to ISO form (2006-01-02).
// The second return value is false when the input is not a recognized date.
func NormalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return s, false
	}
	return t.Format(ISODateLayout), true
}

// NormalizeWhitespace trims leading and trailing whitespace and collapses
// internal runs to a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
