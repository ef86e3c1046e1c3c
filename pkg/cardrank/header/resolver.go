// Package header maps canonical field names onto the column headers present in a dataset.
package header

import (
	"strings"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// Canonical field names.
const (
	Card       = "card"
	Issuer     = "issuer"
	Network    = "network"
	Country    = "country"
	Rewards    = "rewards"
	AnnualFee  = "annualFee"
	FXFee      = "fxFee"
	Stake      = "stake"
	Limits     = "limits"
	Link       = "link"
	Image      = "image"
	FeeAmount  = "feeAmount"
	RewardsPct = "rewardsPct"
	BaseScore  = "baseScore"
)

// Map maps canonical field names to resolved headers.
// A field missing from the map is absent from the dataset.
type Map map[string]string

// Lookup returns the header resolved for field.
func (m Map) Lookup(field string) (string, bool) {
	h, ok := m[field]
	return h, ok
}

// Value returns the raw cell of row under the header resolved for field.
// Absent fields and missing cells yield ("", false).
func (m Map) Value(row models.Row, field string) (string, bool) {
	h, ok := m[field]
	if !ok {
		return "", false
	}
	return row.Value(h)
}

// FindAlias returns the first header whose trimmed, case-insensitive text equals
// an alias. Aliases are tried in priority order.
func FindAlias(headers []string, aliases []string) (string, bool) {
	for _, a := range aliases {
		want := strings.ToLower(strings.TrimSpace(a))
		for _, h := range headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return h, true
			}
		}
	}
	return "", false
}

// Resolve builds a Map by exact alias matching for every field in aliases.
func Resolve(headers []string, aliases map[string][]string) Map {
	m := make(Map, len(aliases))
	for field, list := range aliases {
		if h, ok := FindAlias(headers, list); ok {
			m[field] = h
		}
	}
	return m
}

// Resolver resolves a Map with an optional fuzzy fallback for one field.
type Resolver struct {
	aliases    map[string][]string
	fuzzyField string
	scorer     *FuzzyScorer
	cache      *FuzzyCache
}

// NewResolver creates a Resolver. When scorer is nil no fuzzy fallback is applied.
// cache may be nil, in which case fuzzy lookups are not memoized.
func NewResolver(aliases map[string][]string, fuzzyField string, scorer *FuzzyScorer, cache *FuzzyCache) *Resolver {
	return &Resolver{aliases: aliases, fuzzyField: fuzzyField, scorer: scorer, cache: cache}
}

// Resolve maps every configured field onto headers. The fuzzy field falls back
// to the heuristic scorer when none of its aliases match.
func (r *Resolver) Resolve(headers []string) Map {
	m := Resolve(headers, r.aliases)
	if r.scorer == nil || r.fuzzyField == "" {
		return m
	}
	if _, ok := m[r.fuzzyField]; ok {
		return m
	}

	var (
		h  string
		ok bool
	)
	if r.cache != nil {
		h, ok = r.cache.Resolve(headers, r.scorer)
	} else {
		h, ok = r.scorer.Find(headers)
	}
	if ok {
		m[r.fuzzyField] = h
	}
	return m
}

// NormalizeRow builds a Row from raw using the resolved headers.
// When no card header resolves, the card name falls back to a raw "Card" then "Name" cell.
func (m Map) NormalizeRow(raw map[string]string) models.Row {
	r := models.NewRow(raw)
	get := func(field string) string {
		v, _ := m.Value(r, field)
		return v
	}

	r.Card = get(Card)
	if _, ok := m[Card]; !ok {
		r.Card = raw["Card"]
		if r.Card == "" {
			r.Card = raw["Name"]
		}
	}
	r.Issuer = get(Issuer)
	r.Network = get(Network)
	r.Country = get(Country)
	r.Rewards = get(Rewards)
	r.AnnualFee = get(AnnualFee)
	r.FXFee = get(FXFee)
	r.Stake = get(Stake)
	r.Limits = get(Limits)
	r.Link = get(Link)
	if img := models.NormalizeImageURL(get(Image)); models.IsURLLike(img) {
		r.Image = img
	}
	return r
}
