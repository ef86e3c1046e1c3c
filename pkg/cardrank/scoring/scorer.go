package scoring

import (
	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/numeric"
)

// MaxComponentScore is the upper bound of the fee and reward scores.
const MaxComponentScore = 5.0

// FeeScore maps an annual fee onto [0,5], cheaper being better.
// A zero fee scores 5, and so does every fee when the dataset maximum is not positive.
func FeeScore(fee, maxFee float64) float64 {
	if fee <= 0 || maxFee <= 0 {
		return MaxComponentScore
	}
	return numeric.Clamp(MaxComponentScore*(1-fee/maxFee), 0, MaxComponentScore)
}

// RewardScore maps a rewards percentage onto [0,5] between the dataset bounds.
// A flat dataset scores 0 when its bound is not positive and 5 otherwise.
func RewardScore(v, minPct, maxPct float64) float64 {
	if maxPct <= minPct {
		if maxPct <= 0 {
			return 0
		}
		return MaxComponentScore
	}
	return numeric.Clamp(MaxComponentScore*(v-minPct)/(maxPct-minPct), 0, MaxComponentScore)
}

// Score computes a row's component scores and total.
func Score(r models.Row, m header.Map, a models.Anchors) models.ScoreResult {
	s := models.ScoreResult{
		Base:       baseScore(r, m),
		Fee:        annualFee(r, m),
		RewardsPct: rewardsPct(r, m),
	}
	s.FeeScore = FeeScore(s.Fee, a.MaxAnnualFee)
	s.RewardScore = RewardScore(s.RewardsPct, a.MinRewardsPct, a.MaxRewardsPct)
	s.Total = s.Base + s.FeeScore + s.RewardScore
	s.Display = numeric.Round(s.Total, 1)
	return s
}
