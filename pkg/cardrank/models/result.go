package models

import (
	"fmt"
	"strings"
)

// SortMode selects the metric rows are ranked by.
type SortMode string

const (
	// SortOverall ranks by total score.
	SortOverall SortMode = "overall"
	// SortRewards ranks by raw rewards percentage.
	SortRewards SortMode = "rewards"
	// SortAnnualFee ranks by fee score, cheapest first.
	SortAnnualFee SortMode = "annual_fee"
)

// ParseSortMode maps a user-facing sort label to a SortMode.
// Unknown or empty input selects SortOverall.
func ParseSortMode(s string) SortMode {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "rewards" || t == string(SortRewards):
		return SortRewards
	case t == "annual fee" || t == "fee" || t == string(SortAnnualFee):
		return SortAnnualFee
	default:
		return SortOverall
	}
}

// Label returns the sort label shown in summary metadata.
func (m SortMode) Label() string {
	switch m {
	case SortRewards:
		return "Rewards"
	case SortAnnualFee:
		return "Annual Fee"
	default:
		return "Overall (sum of scores)"
	}
}

// BandLabel returns the column caption used for rank bands.
func (m SortMode) BandLabel() string {
	switch m {
	case SortRewards:
		return "Rewards"
	case SortAnnualFee:
		return "Annual Fee"
	default:
		return "Score"
	}
}

// RankedRow is one row of ranked output.
type RankedRow struct {
	Row      Row         `json:"row"`
	Score    ScoreResult `json:"score"`
	Segments []Segment   `json:"segments"`
	// Details are the row's non-blank raw cells in header order.
	Details  []Detail    `json:"details,omitempty"`
}

// Band groups rows sharing the same rounded active-metric value.
type Band struct {
	// Rank is the 1-based display ordinal of the band.
	Rank int `json:"rank"`
	// Key is the rounded metric value shared by every row in the band.
	Key  float64     `json:"key"`
	Rows []RankedRow `json:"rows"`
}

// Result is the ranked, banded output of one engine call.
type Result struct {
	// LoadID identifies the table load the result was computed from.
	LoadID string `json:"load_id,omitempty"`
	// Mode is the active sort mode.
	Mode SortMode `json:"mode"`
	// SortLabel is Mode's display label.
	SortLabel string `json:"sort_label"`
	// BandLabel is the caption shown next to each band.
	BandLabel string `json:"band_label"`
	// Count is the number of rows shown.
	Count int    `json:"count"`
	Bands []Band `json:"bands"`
}

// Rows flattens the bands back into sorted order.
func (r Result) Rows() []RankedRow {
	out := make([]RankedRow, 0, r.Count)
	for _, b := range r.Bands {
		out = append(out, b.Rows...)
	}
	return out
}

// Summary returns the meta line shown above the results.
func (r Result) Summary() string {
	noun := "cards"
	if r.Count == 1 {
		noun = "card"
	}
	return fmt.Sprintf("%d %s shown • Sort: %s", r.Count, noun, r.SortLabel)
}
