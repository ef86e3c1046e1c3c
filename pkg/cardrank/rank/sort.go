package rank

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/numeric"
)

// compareFunc orders a against b: negative sorts a first, 0 is a tie.
type compareFunc func(a, b models.RankedRow) int

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func descending(f func(models.RankedRow) float64) compareFunc {
	return func(a, b models.RankedRow) int { return compareFloat(f(b), f(a)) }
}

func ascending(f func(models.RankedRow) float64) compareFunc {
	return func(a, b models.RankedRow) int { return compareFloat(f(a), f(b)) }
}

func byTotal(r models.RankedRow) float64       { return r.Score.Total }
func byRewardsPct(r models.RankedRow) float64  { return r.Score.RewardsPct }
func byRewardScore(r models.RankedRow) float64 { return r.Score.RewardScore }
func byFeeScore(r models.RankedRow) float64    { return r.Score.FeeScore }
func byFee(r models.RankedRow) float64         { return r.Score.Fee }

// Sort orders rows in place for mode. Card names break ties using the
// collation rules of lang.
func Sort(rows []models.RankedRow, mode models.SortMode, lang language.Tag) {
	c := collate.New(lang)
	byName := func(a, b models.RankedRow) int { return c.CompareString(a.Row.Card, b.Row.Card) }

	var keys []compareFunc
	switch mode {
	case models.SortRewards:
		keys = []compareFunc{descending(byRewardsPct), descending(byRewardScore), byName}
	case models.SortAnnualFee:
		keys = []compareFunc{descending(byFeeScore), ascending(byFee), byName}
	default:
		keys = []compareFunc{descending(byTotal), byName}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			if d := k(rows[i], rows[j]); d != 0 {
				return d < 0
			}
		}
		return false
	})
}

// BandKey returns the rounded active-metric value rows are grouped by.
func BandKey(r models.RankedRow, mode models.SortMode) float64 {
	switch mode {
	case models.SortRewards:
		return numeric.Round(r.Score.RewardsPct, 1)
	case models.SortAnnualFee:
		return numeric.Round(r.Score.Fee, 0)
	default:
		return r.Score.Display
	}
}

// Group splits sorted rows into bands of equal BandKey. Bands are numbered from 1
// in sorted order and rows keep their sorted order within a band.
func Group(rows []models.RankedRow, mode models.SortMode) []models.Band {
	bands := []models.Band{}
	for _, r := range rows {
		key := BandKey(r, mode)
		if n := len(bands); n > 0 && bands[n-1].Key == key {
			bands[n-1].Rows = append(bands[n-1].Rows, r)
			continue
		}
		bands = append(bands, models.Band{Rank: len(bands) + 1, Key: key, Rows: []models.RankedRow{r}})
	}
	return bands
}
