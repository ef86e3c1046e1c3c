package output

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// ResultView is the serialized form of a ranked result.
type ResultView struct {
	LoadID    string          `json:"load_id,omitempty"`
	Mode      models.SortMode `json:"mode"`
	SortLabel string          `json:"sort_label"`
	BandLabel string          `json:"band_label"`
	Count     int             `json:"count"`
	Summary   string          `json:"summary"`
	Bands     []BandView      `json:"bands"`
}

// BandView is one rank band with its key rendered for display.
type BandView struct {
	Rank    int       `json:"rank"`
	Key     float64   `json:"key"`
	KeyText string    `json:"key_text"`
	Rows    []RowView `json:"rows"`
}

// RowView flattens a ranked row: the normalized card fields, its scores,
// the display text of the active metric, and the breakdown.
type RowView struct {
	models.Row
	Metric   string             `json:"metric"`
	Score    models.ScoreResult `json:"score"`
	Segments []models.Segment   `json:"segments"`
	Details  []models.Detail    `json:"details,omitempty"`
}

// NewResultView builds the view of result.
func NewResultView(result models.Result) ResultView {
	v := ResultView{
		LoadID:    result.LoadID,
		Mode:      result.Mode,
		SortLabel: result.SortLabel,
		BandLabel: result.BandLabel,
		Count:     result.Count,
		Summary:   result.Summary(),
		Bands:     make([]BandView, 0, len(result.Bands)),
	}
	for _, b := range result.Bands {
		v.Bands = append(v.Bands, newBandView(result.Mode, b))
	}
	return v
}

func newBandView(mode models.SortMode, b models.Band) BandView {
	bv := BandView{
		Rank:    b.Rank,
		Key:     b.Key,
		KeyText: BandKey(mode, b.Key),
		Rows:    make([]RowView, 0, len(b.Rows)),
	}
	for _, r := range b.Rows {
		segs := r.Segments
		if segs == nil {
			segs = []models.Segment{}
		}
		bv.Rows = append(bv.Rows, RowView{
			Row:      r.Row,
			Metric:   Metric(mode, r.Score),
			Score:    r.Score,
			Segments: segs,
			Details:  r.Details,
		})
	}
	return bv
}

// ToJSON serializes a ranked result.
func ToJSON(result models.Result, pretty bool) ([]byte, error) {
	return marshal(NewResultView(result), pretty)
}

// BandToJSON serializes one band of a result ranked in mode.
func BandToJSON(mode models.SortMode, band models.Band, pretty bool) ([]byte, error) {
	return marshal(newBandView(mode, band), pretty)
}

// FacetsToJSON serializes the filter choices of a loaded table.
func FacetsToJSON(f cardrank.Facets, pretty bool) ([]byte, error) {
	return marshal(f, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, eris.Wrap(err, "marshal result")
	}
	return data, nil
}
