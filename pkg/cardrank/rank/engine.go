// Package rank filters, scores, sorts and bands the rows of a loaded table.
package rank

import (
	"golang.org/x/text/language"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/scoring"
)

// Engine ranks the rows of one table load. It holds only values derived once
// per load and is safe for concurrent use.
type Engine struct {
	headers  []string
	m        header.Map
	anchors  models.Anchors
	segments *scoring.SegmentBuilder
	lang     language.Tag
}

// NewEngine creates an Engine over a table's headers and per-load derived state.
// anchors must be computed over the full table.
func NewEngine(headers []string, m header.Map, anchors models.Anchors, segments *scoring.SegmentBuilder, lang language.Tag) *Engine {
	return &Engine{
		headers:  append([]string(nil), headers...),
		m:        m,
		anchors:  anchors,
		segments: segments,
		lang:     lang,
	}
}

// Rank filters rows, scores the survivors against the load's anchors, sorts
// them for mode and groups them into bands.
// No matches yield a Result with zero Count and no bands.
func (e *Engine) Rank(rows []models.Row, f Filters, mode models.SortMode) models.Result {
	kept := Filter(rows, e.headers, f)

	ranked := make([]models.RankedRow, len(kept))
	for i, r := range kept {
		s := scoring.Score(r, e.m, e.anchors)
		ranked[i] = models.RankedRow{Row: r, Score: s, Segments: e.segments.Build(r, s)}
	}
	Sort(ranked, mode, e.lang)

	return models.Result{
		Mode:      mode,
		SortLabel: mode.Label(),
		BandLabel: mode.BandLabel(),
		Count:     len(ranked),
		Bands:     Group(ranked, mode),
	}
}
