// Package models defines data structures shared by the ranking engine.
package models

// Table represents a tabular dataset as handed over by an ingestion source.
type Table struct {
	// Source is a short description of where the table came from (file name, "sample").
	Source string `json:"source,omitempty"`
	// Headers lists the column headers in their original order. Duplicates are allowed.
	Headers []string `json:"headers"`
	// Records holds one header-to-value mapping per data row. Missing keys are allowed.
	Records []map[string]string `json:"records"`
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Records)
}

// Row is an immutable raw record plus its normalized view fields.
// The raw record is the sole source of truth; the view fields are derived once
// at load time from the resolved header map.
type Row struct {
	raw map[string]string

	// Card is the card or product name.
	Card string `json:"card"`
	// Issuer is the issuing bank or provider.
	Issuer string `json:"issuer,omitempty"`
	// Network is the payment network (Visa, Mastercard, ...).
	Network string `json:"network,omitempty"`
	// Country is the country or market the card targets.
	Country string `json:"country,omitempty"`
	// Rewards is the free-text rewards description.
	Rewards string `json:"rewards,omitempty"`
	// AnnualFee is the raw annual fee text.
	AnnualFee string `json:"annual_fee,omitempty"`
	// FXFee is the raw foreign exchange fee text.
	FXFee string `json:"fx_fee,omitempty"`
	// Stake is the raw staking requirement text.
	Stake string `json:"stake,omitempty"`
	// Limits is the raw spending limits text.
	Limits string `json:"limits,omitempty"`
	// Link is the product URL.
	Link string `json:"link,omitempty"`
	// Image is a normalized, URL-like thumbnail address (empty when none).
	Image string `json:"image,omitempty"`
}

// NewRow creates a Row owning a private copy of raw.
func NewRow(raw map[string]string) Row {
	cp := make(map[string]string, len(raw))
	for k, v := range raw {
		cp[k] = v
	}
	return Row{raw: cp}
}

// Value returns the raw cell stored under header.
func (r Row) Value(header string) (string, bool) {
	v, ok := r.raw[header]
	return v, ok
}

// Raw returns a copy of the raw record.
func (r Row) Raw() map[string]string {
	cp := make(map[string]string, len(r.raw))
	for k, v := range r.raw {
		cp[k] = v
	}
	return cp
}

// Fields returns the normalized view fields in a fixed order.
func (r Row) Fields() []string {
	return []string{
		r.Card, r.Issuer, r.Network, r.Country, r.Rewards,
		r.AnnualFee, r.FXFee, r.Stake, r.Limits, r.Link, r.Image,
	}
}

// Detail is one non-blank raw cell shown in a row's expanded view.
type Detail struct {
	Header string `json:"header"`
	Value  string `json:"value"`
	URL    bool   `json:"url,omitempty"`
}

// Details returns the non-blank raw cells in header order, skipping any header in exclude.
// Duplicate headers are reported once.
func (r Row) Details(headers []string, exclude map[string]struct{}) []Detail {
	var out []Detail
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if _, skip := exclude[h]; skip {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		v, ok := r.raw[h]
		if !ok || IsBlankish(v) {
			continue
		}
		out = append(out, Detail{Header: h, Value: v, URL: IsURLLike(v)})
	}
	return out
}
