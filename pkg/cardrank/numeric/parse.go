// Package numeric converts loosely formatted spreadsheet text into numbers.
package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// notAvailable matches markers that mean "no value" anywhere in the text.
	notAvailable = regexp.MustCompile(`\bn/?a\b|not\s*available|—`)
	// strip removes currency symbols, thousands separators and whitespace.
	strip = regexp.MustCompile(`[$€£¥₹,\s]`)
	// number is the first signed decimal number.
	number = regexp.MustCompile(`-?\d+(\.\d+)?`)
)

// Parse converts raw cell text into a number.
// The second return value is false when the text carries no number.
//
// Rules, in order: empty text and not-available markers ("n/a", "not available",
// an em-dash, a lone hyphen) yield no number; text containing "free" yields 0;
// otherwise currency symbols, commas and whitespace are removed and the first
// signed decimal is parsed.
func Parse(raw string) (float64, bool) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return 0, false
	}
	lower := strings.ToLower(t)
	if lower == "-" || notAvailable.MatchString(lower) {
		return 0, false
	}
	if strings.Contains(lower, "free") {
		return 0, true
	}

	m := number.FindString(strip.ReplaceAllString(t, ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// OrZero returns the parsed value of raw, or 0 when it carries no number.
func OrZero(raw string) float64 {
	v, _ := Parse(raw)
	return v
}

// NonNegative returns max(0, parsed value), or 0 when raw carries no number.
func NonNegative(raw string) float64 {
	return math.Max(0, OrZero(raw))
}
