// Package output renders ranked results as JSON and display text.
package output

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/numeric"
)

// Missing is shown in place of a value that is not a finite number.
const Missing = "—"

var grouping = message.NewPrinter(language.English)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fixed formats v with the given decimals and drops a trailing ".0".
func fixed(v float64, decimals int) string {
	r := numeric.Round(v, decimals)
	if r == 0 {
		r = 0 // no negative zero
	}
	return strings.TrimSuffix(strconv.FormatFloat(r, 'f', decimals, 64), ".0")
}

// FormatPercent formats a rewards percentage: two decimals below 1, one otherwise.
func FormatPercent(v float64) string {
	if !finite(v) {
		return Missing
	}
	d := 1
	if math.Abs(v) < 1 {
		d = 2
	}
	return fixed(v, d) + "%"
}

// FormatMoneyPerYear formats a yearly fee in whole dollars, e.g. "$1,234/yr".
func FormatMoneyPerYear(v float64) string {
	if !finite(v) {
		return Missing
	}
	return "$" + grouping.Sprintf("%d", int64(math.Floor(v+0.5))) + "/yr"
}

// FormatScore formats a total score with one decimal.
func FormatScore(v float64) string {
	if !finite(v) {
		return Missing
	}
	return fixed(v, 1)
}

// Metric returns the display text of the value a row is ranked by in mode.
func Metric(mode models.SortMode, s models.ScoreResult) string {
	switch mode {
	case models.SortRewards:
		return FormatPercent(s.RewardsPct)
	case models.SortAnnualFee:
		return FormatMoneyPerYear(s.Fee)
	default:
		return FormatScore(s.Display)
	}
}

// BandKey returns the display text of a band key in mode.
func BandKey(mode models.SortMode, key float64) string {
	return Metric(mode, models.ScoreResult{RewardsPct: key, Fee: key, Display: key})
}
