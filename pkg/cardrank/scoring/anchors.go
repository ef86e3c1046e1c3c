// Package scoring computes dataset anchors, per-row scores and breakdown segments.
package scoring

import (
	"math"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/numeric"
)

// ComputeAnchors scans every row once and returns the dataset-wide bounds.
// rows must be the full, unfiltered table.
//
// Rows whose fee or rewards cell is missing or unparseable count as 0, so a
// single unparseable rewards cell pulls MinRewardsPct down to 0.
func ComputeAnchors(rows []models.Row, m header.Map) models.Anchors {
	a := models.Anchors{}
	if h, ok := m.Lookup(header.RewardsPct); ok {
		a.RewardsHeader = h
	}

	minRewards, maxRewards := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		a.MaxAnnualFee = math.Max(a.MaxAnnualFee, annualFee(r, m))

		v := rewardsPct(r, m)
		minRewards = math.Min(minRewards, v)
		maxRewards = math.Max(maxRewards, v)
	}
	if !math.IsInf(minRewards, 0) {
		a.MinRewardsPct = minRewards
	}
	if !math.IsInf(maxRewards, 0) {
		a.MaxRewardsPct = maxRewards
	}
	return a
}

func annualFee(r models.Row, m header.Map) float64 {
	v, _ := m.Value(r, header.FeeAmount)
	return numeric.NonNegative(v)
}

func rewardsPct(r models.Row, m header.Map) float64 {
	v, _ := m.Value(r, header.RewardsPct)
	return numeric.NonNegative(v)
}

func baseScore(r models.Row, m header.Map) float64 {
	v, _ := m.Value(r, header.BaseScore)
	return numeric.OrZero(v)
}
