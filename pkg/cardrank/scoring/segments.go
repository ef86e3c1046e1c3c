package scoring

import (
	"fmt"
	"regexp"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/numeric"
)

// Keys of the fixed segments.
const (
	RewardsSegmentKey   = "__rewards_score__"
	AnnualFeeSegmentKey = "__annual_fee_score__"
)

// FixedSegmentCount is the number of segments every breakdown starts with.
const FixedSegmentCount = 2

// SegmentConfig controls breakdown segment detection.
type SegmentConfig struct {
	// Detect matches score-like header names.
	Detect string `json:"detect" mapstructure:"detect"`
	// LabelPrefix is stripped from a detected header before prettifying it.
	LabelPrefix string `json:"label_prefix" mapstructure:"label_prefix"`
	// Overrides are headers always treated as score-like.
	Overrides []string `json:"overrides" mapstructure:"overrides"`
	// Max caps the number of segments, fixed segments included.
	Max int `json:"max" mapstructure:"max"`
}

// DefaultSegmentConfig returns the built-in detection settings.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		Detect:      `(?i)^(score[:\s]|breakdown:|segment:|category:)|\sscore$`,
		LabelPrefix: `(?i)^(score[:\s-]*|(breakdown|segment|category):\s*)`,
		Max:         6,
	}
}

// SegmentSource emits candidate segments for one scored row.
type SegmentSource interface {
	Segments(r models.Row, s models.ScoreResult) []models.Segment
}

// ScoreSegments emits the Rewards and Annual Fee segments, always, in that order.
type ScoreSegments struct{}

// Segments implements SegmentSource.
func (ScoreSegments) Segments(_ models.Row, s models.ScoreResult) []models.Segment {
	return []models.Segment{
		{Key: RewardsSegmentKey, Label: "Rewards", Value: numeric.Round(s.RewardScore, 1)},
		{Key: AnnualFeeSegmentKey, Label: "Annual Fee", Value: numeric.Round(s.FeeScore, 1)},
	}
}

type detectedColumn struct {
	header string
	label  string
}

// ColumnSegments emits one segment per score-like column holding a positive number.
type ColumnSegments struct {
	columns []detectedColumn
}

// Segments implements SegmentSource.
func (c *ColumnSegments) Segments(r models.Row, _ models.ScoreResult) []models.Segment {
	var out []models.Segment
	for _, col := range c.columns {
		raw, _ := r.Value(col.header)
		if v, ok := numeric.Parse(raw); ok && v > 0 {
			out = append(out, models.Segment{Key: col.header, Label: col.label, Value: v})
		}
	}
	return out
}

// Headers returns the detected headers in scan order.
func (c *ColumnSegments) Headers() []string {
	out := make([]string, len(c.columns))
	for i, col := range c.columns {
		out[i] = col.header
	}
	return out
}

// SegmentBuilder concatenates segment sources and caps the result.
type SegmentBuilder struct {
	sources []SegmentSource
	max     int
}

// NewSegmentBuilder detects score-like columns among headers and returns a builder
// emitting the fixed pair followed by those columns.
//
// The base-score column is excluded from detection. The resolved rewards and fee
// columns are not, so a rewards header that looks score-like appears twice.
func NewSegmentBuilder(headers []string, m header.Map, cfg SegmentConfig) (*SegmentBuilder, error) {
	if cfg.Max < FixedSegmentCount {
		return nil, fmt.Errorf("segment cap %d is below %d", cfg.Max, FixedSegmentCount)
	}
	detect, err := regexp.Compile(cfg.Detect)
	if err != nil {
		return nil, fmt.Errorf("compile segment pattern %q: %w", cfg.Detect, err)
	}
	prefix, err := regexp.Compile(cfg.LabelPrefix)
	if err != nil {
		return nil, fmt.Errorf("compile label prefix %q: %w", cfg.LabelPrefix, err)
	}

	overrides := make(map[string]struct{}, len(cfg.Overrides))
	for _, h := range cfg.Overrides {
		overrides[h] = struct{}{}
	}
	base, hasBase := m.Lookup(header.BaseScore)

	cols := &ColumnSegments{}
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if hasBase && h == base {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		_, forced := overrides[h]
		if !forced && !detect.MatchString(h) {
			continue
		}
		seen[h] = struct{}{}
		cols.columns = append(cols.columns, detectedColumn{
			header: h,
			label:  Prettify(prefix.ReplaceAllString(h, "")),
		})
	}

	return &SegmentBuilder{
		sources: []SegmentSource{ScoreSegments{}, cols},
		max:     cfg.Max,
	}, nil
}

// NewSegmentBuilderFromSources builds a SegmentBuilder over explicit sources.
func NewSegmentBuilderFromSources(limit int, sources ...SegmentSource) *SegmentBuilder {
	return &SegmentBuilder{sources: sources, max: limit}
}

// Columns returns the detected score-like headers of every column source, in scan order.
func (b *SegmentBuilder) Columns() []string {
	var out []string
	for _, src := range b.sources {
		if c, ok := src.(*ColumnSegments); ok {
			out = append(out, c.Headers()...)
		}
	}
	return out
}

// Build returns the capped, ordered breakdown of one scored row with width shares filled in.
func (b *SegmentBuilder) Build(r models.Row, s models.ScoreResult) []models.Segment {
	var out []models.Segment
	for _, src := range b.sources {
		out = append(out, src.Segments(r, s)...)
		if len(out) >= b.max {
			out = out[:b.max]
			break
		}
	}
	fillShares(out)
	return out
}

// fillShares sets each segment's share of the bar, in percent, never below 2.
func fillShares(segs []models.Segment) {
	total := 0.0
	for _, s := range segs {
		total += s.Value
	}
	if total == 0 {
		total = 1
	}
	for i := range segs {
		share := int(numeric.Round(segs[i].Value/total*100, 0))
		if share < 2 {
			share = 2
		}
		segs[i].Share = share
	}
}
