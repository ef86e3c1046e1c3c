// Package cardrank ranks spreadsheet-shaped card comparison tables.
//
// A Session owns one loaded table together with the header map and anchors
// derived from it, and answers ranking queries against that table.
package cardrank

import (
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/scoring"
)

// Options configures a Session. All schema knowledge lives here as data.
type Options struct {
	// Aliases maps canonical field names to header aliases in priority order.
	Aliases map[string][]string `json:"aliases" mapstructure:"aliases"`
	// Fuzzy configures the rewards-percentage header heuristic.
	Fuzzy header.FuzzyConfig `json:"fuzzy" mapstructure:"fuzzy"`
	// FuzzyRewards enables the heuristic when no rewards alias matches.
	// If nil, defaults to true.
	FuzzyRewards *bool `json:"fuzzy_rewards,omitempty" mapstructure:"fuzzy_rewards"`
	// Segments configures breakdown segment detection.
	Segments scoring.SegmentConfig `json:"segments" mapstructure:"segments"`
	// Language is the BCP 47 tag used to collate card names.
	Language string `json:"language" mapstructure:"language"`
	// DetailExclude lists headers left out of row details.
	DetailExclude []string `json:"detail_exclude" mapstructure:"detail_exclude"`
}

// DefaultAliases returns the built-in alias lists.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		header.Card:      {"Card", "Card Name", "Name", "Product", "Card_name"},
		header.Issuer:    {"Issuer", "Bank", "Provider", "Company"},
		header.Network:   {"Network", "Scheme", "Brand"},
		header.Country:   {"Country", "Region", "Market"},
		header.Rewards:   {"Rewards", "Cashback", "Perks", "Benefits"},
		header.AnnualFee: {"Annual Fee", "Yearly Fee", "Ann. Fee", "Annual_fee"},
		header.FXFee:     {"FX Fee", "Foreign Fee", "Intl Fee", "FX"},
		header.Stake:     {"Stake Required", "Stake", "Stake Tier", "Staking"},
		header.Limits:    {"Limits", "Limit", "Monthly Limit", "Daily Limit"},
		header.Link:      {"Link", "URL", "Website"},
		header.Image:     {"Image", "Logo", "Thumbnail", "Image URL", "Picture"},
		header.FeeAmount: {"Annual Fee USD", "Annual Fee ($)", "Annual_Fee_USD", "Annual Fee", "annual_fee_usd"},
		header.RewardsPct: {
			"Rewards max pct", "Rewards Max %", "Rewards Max Pct", "Max Rewards %", "Rewards Max",
			"Max % Rewards", "Rewards (max %)", "Rewards % Max", "Rewards Pct Max", "Max Cashback %", "Cashback Max %",
		},
		header.BaseScore: {"DS", "Score", "Base Score", "Dataset Score", "DS Score"},
	}
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Aliases:       DefaultAliases(),
		Fuzzy:         header.DefaultFuzzyConfig(),
		Segments:      scoring.DefaultSegmentConfig(),
		Language:      "en",
		DetailExclude: []string{"Card", "Card Name", "Name", "Product", "Card_name"},
	}
}

// ShouldUseFuzzyRewards returns whether the rewards heuristic is enabled.
func (o Options) ShouldUseFuzzyRewards() bool {
	if o.FuzzyRewards != nil {
		return *o.FuzzyRewards
	}
	return true
}

// LanguageTag returns the parsed collation language, English when unset.
func (o Options) LanguageTag() (language.Tag, error) {
	if o.Language == "" {
		return language.English, nil
	}
	tag, err := language.Parse(o.Language)
	if err != nil {
		return language.Und, eris.Wrapf(err, "cardrank: parse language %q", o.Language)
	}
	return tag, nil
}

// Validate reports the first configuration problem found.
func (o Options) Validate() error {
	if len(o.Aliases) == 0 {
		return eris.New("cardrank: no header aliases configured")
	}
	for field, list := range o.Aliases {
		if len(list) == 0 {
			return eris.Errorf("cardrank: empty alias list for field %q", field)
		}
	}
	if o.ShouldUseFuzzyRewards() {
		if _, err := header.NewFuzzyScorer(o.Fuzzy); err != nil {
			return eris.Wrap(err, "cardrank: fuzzy header rules")
		}
	}
	if _, err := scoring.NewSegmentBuilder(nil, header.Map{}, o.Segments); err != nil {
		return eris.Wrap(err, "cardrank: segment config")
	}
	if _, err := o.LanguageTag(); err != nil {
		return err
	}
	return nil
}
