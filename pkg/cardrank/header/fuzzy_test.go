package header

import (
	"testing"
)

func newDefaultScorer(t *testing.T) *FuzzyScorer {
	t.Helper()
	s, err := NewFuzzyScorer(DefaultFuzzyConfig())
	if err != nil {
		t.Fatalf("NewFuzzyScorer failed: %v", err)
	}
	return s
}

func TestFuzzyScore(t *testing.T) {
	s := newDefaultScorer(t)

	tests := []struct {
		header   string
		expected float64
	}{
		{"Rewards", 5},
		{"Top Cashback Percent", 9},
		{"Rewards Max %", 9},
		{"Rewards APR", -1},
		{"Reward Fee", 2},
		{"Annual Fee", -999},
		{"Cryptorewards", -999},
		{"Cashbacks", -999},
		{"Max Reward pct", 9},
	}

	for _, tt := range tests {
		if got := s.Score(tt.header); got != tt.expected {
			t.Errorf("Score(%q) = %v, expected %v", tt.header, got, tt.expected)
		}
	}
}

func TestFuzzyFind(t *testing.T) {
	s := newDefaultScorer(t)

	tests := []struct {
		name     string
		headers  []string
		expected string
		found    bool
	}{
		{"best wins", []string{"Rewards", "Rewards Up To %", "Card"}, "Rewards Up To %", true},
		{"tie keeps first", []string{"Rewards", "Cashback"}, "Rewards", true},
		{"non-positive best is absent", []string{"Rewards APR", "Card"}, "", false},
		{"no candidates", []string{"Card", "Issuer"}, "", false},
		{"empty headers", nil, "", false},
	}

	for _, tt := range tests {
		got, ok := s.Find(tt.headers)
		if ok != tt.found || got != tt.expected {
			t.Errorf("%s: Find = (%q, %v), expected (%q, %v)", tt.name, got, ok, tt.expected, tt.found)
		}
	}
}

func TestNewFuzzyScorerInvalidPattern(t *testing.T) {
	cfg := DefaultFuzzyConfig()
	cfg.Rules = append(cfg.Rules, FuzzyRule{Pattern: "(", Weight: 1})
	if _, err := NewFuzzyScorer(cfg); err == nil {
		t.Error("expected error for invalid rule pattern")
	}
}

func TestFuzzyCacheKeyedByHeaders(t *testing.T) {
	s := newDefaultScorer(t)
	c := NewFuzzyCache()

	h1, _ := c.Resolve([]string{"Rewards %"}, s)
	h2, ok := c.Resolve([]string{"Card", "Cashback"}, s)
	if h1 != "Rewards %" || h2 != "Cashback" || !ok {
		t.Errorf("unexpected lookups %q, %q", h1, h2)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestKeyOrderSensitive(t *testing.T) {
	if Key([]string{"a", "b"}) == Key([]string{"b", "a"}) {
		t.Error("Key should depend on header order")
	}
	if Key([]string{"ab"}) == Key([]string{"a", "b"}) {
		t.Error("Key should separate headers")
	}
}
