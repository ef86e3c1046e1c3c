package models

import (
	"reflect"
	"testing"
)

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		input    string
		expected SortMode
	}{
		{"", SortOverall},
		{"Overall (sum of scores)", SortOverall},
		{"Rewards", SortRewards},
		{" rewards ", SortRewards},
		{"Annual Fee", SortAnnualFee},
		{"annual_fee", SortAnnualFee},
		{"fee", SortAnnualFee},
		{"cheapest", SortOverall},
	}

	for _, tt := range tests {
		result := ParseSortMode(tt.input)
		if result != tt.expected {
			t.Errorf("ParseSortMode(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestSortModeLabels(t *testing.T) {
	if SortOverall.Label() != "Overall (sum of scores)" || SortOverall.BandLabel() != "Score" {
		t.Errorf("unexpected overall labels: %q, %q", SortOverall.Label(), SortOverall.BandLabel())
	}
	if SortAnnualFee.Label() != "Annual Fee" || SortRewards.BandLabel() != "Rewards" {
		t.Errorf("unexpected labels: %q, %q", SortAnnualFee.Label(), SortRewards.BandLabel())
	}
}

func TestResultSummary(t *testing.T) {
	r := Result{Count: 1, SortLabel: "Rewards"}
	if got := r.Summary(); got != "1 card shown • Sort: Rewards" {
		t.Errorf("Summary() = %q", got)
	}
	r.Count = 0
	if got := r.Summary(); got != "0 cards shown • Sort: Rewards" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestResultRows(t *testing.T) {
	r := Result{Count: 3, Bands: []Band{
		{Rank: 1, Rows: []RankedRow{{Row: Row{Card: "A"}}, {Row: Row{Card: "B"}}}},
		{Rank: 2, Rows: []RankedRow{{Row: Row{Card: "C"}}}},
	}}
	var names []string
	for _, row := range r.Rows() {
		names = append(names, row.Row.Card)
	}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Errorf("Rows() = %v", names)
	}
}

func TestRowDetails(t *testing.T) {
	r := NewRow(map[string]string{
		"Card":   "Gold",
		"Issuer": "Acme",
		"FX Fee": "n/a",
		"Link":   "https://example.com/gold",
		"Limits": " - ",
		"Bonus":  "",
	})
	headers := []string{"Card", "Issuer", "FX Fee", "Link", "Issuer", "Limits", "Bonus", "Missing"}
	got := r.Details(headers, map[string]struct{}{"Card": {}})

	expected := []Detail{
		{Header: "Issuer", Value: "Acme"},
		{Header: "Link", Value: "https://example.com/gold", URL: true},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Details() = %+v, expected %+v", got, expected)
	}
}

func TestNewRowCopies(t *testing.T) {
	raw := map[string]string{"Card": "Gold"}
	r := NewRow(raw)
	raw["Card"] = "Changed"

	if v, _ := r.Value("Card"); v != "Gold" {
		t.Errorf("Value(Card) = %q, expected Gold", v)
	}
	cp := r.Raw()
	cp["Card"] = "Other"
	if v, _ := r.Value("Card"); v != "Gold" {
		t.Errorf("Raw() leaked the internal map")
	}
}

func TestIsURLLike(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com", true},
		{" http://example.com/a?b=1 ", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"Apply", false},
	}

	for _, tt := range tests {
		result := IsURLLike(tt.input)
		if result != tt.expected {
			t.Errorf("IsURLLike(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestIsBlankish(t *testing.T) {
	for _, v := range []string{"", "  ", "-", "—", "N/A", "na"} {
		if !IsBlankish(v) {
			t.Errorf("IsBlankish(%q) = false, expected true", v)
		}
	}
	for _, v := range []string{"0", "none", "nan"} {
		if IsBlankish(v) {
			t.Errorf("IsBlankish(%q) = true, expected false", v)
		}
	}
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"https://drive.google.com/file/d/XYZ/view?usp=sharing", "https://drive.google.com/uc?export=view&id=XYZ"},
		{"https://drive.google.com/open?id=ABC", "https://drive.google.com/uc?export=view&id=ABC"},
		{"https://www.dropbox.com/s/abc/card.png?dl=0", "https://www.dropbox.com/s/abc/card.png?raw=1"},
		{" https://example.com/card.png ", "https://example.com/card.png"},
		{"card.png", "card.png"},
	}

	for _, tt := range tests {
		result := NormalizeImageURL(tt.input)
		if result != tt.expected {
			t.Errorf("NormalizeImageURL(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
