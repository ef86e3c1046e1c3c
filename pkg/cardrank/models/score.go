package models

// Anchors holds dataset-wide normalization bounds computed once per load.
type Anchors struct {
	// MaxAnnualFee is the largest non-negative annual fee in the table (0 if none).
	MaxAnnualFee float64 `json:"max_annual_fee"`
	// MinRewardsPct is the smallest non-negative rewards percentage.
	MinRewardsPct float64 `json:"min_rewards_pct"`
	// MaxRewardsPct is the largest non-negative rewards percentage.
	MaxRewardsPct float64 `json:"max_rewards_pct"`
	// RewardsHeader is the header the rewards percentage was read from.
	// Empty means no rewards column was resolved.
	RewardsHeader string `json:"rewards_header,omitempty"`
}

// ScoreResult is the per-row scoring outcome.
type ScoreResult struct {
	// Base is the dataset-provided score column, 0 when absent or unparseable.
	Base float64 `json:"base"`
	// Fee is the non-negative annual fee.
	Fee float64 `json:"fee"`
	// FeeScore is in [0,5]; cheaper is higher.
	FeeScore float64 `json:"fee_score"`
	// RewardsPct is the non-negative rewards percentage.
	RewardsPct float64 `json:"rewards_pct"`
	// RewardScore is in [0,5].
	RewardScore float64 `json:"reward_score"`
	// Total is Base + FeeScore + RewardScore, unclamped.
	Total float64 `json:"total"`
	// Display is Total rounded half-up to one decimal.
	Display float64 `json:"display"`
}

// Segment is one labeled contribution in a row's breakdown bar.
type Segment struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Share is the segment's width hint in percent (at least 2).
	Share int `json:"share"`
}
