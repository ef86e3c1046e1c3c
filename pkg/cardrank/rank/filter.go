package rank

import (
	"strings"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// Filters narrows the rows considered by a ranking call.
// Zero-valued fields do not filter.
type Filters struct {
	// Query is a free-text term matched as a substring of the row haystack.
	Query string `json:"query,omitempty"`
	// Chips are terms that must all appear in the row haystack.
	Chips []string `json:"chips,omitempty"`
	// Issuer, Network and Country require exact equality with the normalized field.
	Issuer  string `json:"issuer,omitempty"`
	Network string `json:"network,omitempty"`
	Country string `json:"country,omitempty"`
}

// IsZero reports whether f keeps every row.
func (f Filters) IsZero() bool {
	if strings.TrimSpace(f.Query) != "" || f.Issuer != "" || f.Network != "" || f.Country != "" {
		return false
	}
	for _, c := range f.Chips {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Haystack returns the lower-cased search text of a row: its raw cells in header
// order followed by its normalized fields, separated by spaces.
func Haystack(r models.Row, headers []string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if v, ok := r.Value(h); ok {
			b.WriteString(v)
			b.WriteByte(' ')
		}
	}
	for _, v := range r.Fields() {
		b.WriteString(v)
		b.WriteByte(' ')
	}
	return strings.ToLower(b.String())
}

// matcher is a compiled Filters.
type matcher struct {
	query   string
	chips   []string
	issuer  string
	network string
	country string
}

func newMatcher(f Filters) matcher {
	m := matcher{
		query:   strings.ToLower(strings.TrimSpace(f.Query)),
		issuer:  f.Issuer,
		network: f.Network,
		country: f.Country,
	}
	for _, c := range f.Chips {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			m.chips = append(m.chips, c)
		}
	}
	return m
}

func (m matcher) match(r models.Row, headers []string) bool {
	if m.issuer != "" && r.Issuer != m.issuer {
		return false
	}
	if m.network != "" && r.Network != m.network {
		return false
	}
	if m.country != "" && r.Country != m.country {
		return false
	}
	if m.query == "" && len(m.chips) == 0 {
		return true
	}

	hay := Haystack(r, headers)
	if m.query != "" && !strings.Contains(hay, m.query) {
		return false
	}
	for _, c := range m.chips {
		if !strings.Contains(hay, c) {
			return false
		}
	}
	return true
}

// Filter returns the rows of rows passing f, in their original order.
func Filter(rows []models.Row, headers []string, f Filters) []models.Row {
	m := newMatcher(f)
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if m.match(r, headers) {
			out = append(out, r)
		}
	}
	return out
}
