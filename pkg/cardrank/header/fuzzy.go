package header

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
)

// FuzzyRule adds Weight to a header's score when Pattern matches its lower-cased text.
type FuzzyRule struct {
	Pattern string  `json:"pattern" mapstructure:"pattern"`
	Weight  float64 `json:"weight" mapstructure:"weight"`
}

// FuzzyConfig describes the heuristic used to guess a header when no alias matches.
type FuzzyConfig struct {
	// Gate must match for a header to be considered at all.
	Gate string `json:"gate" mapstructure:"gate"`
	// GateWeight is added when Gate matches.
	GateWeight float64 `json:"gate_weight" mapstructure:"gate_weight"`
	// Reject is the score of a header that fails Gate.
	Reject float64 `json:"reject" mapstructure:"reject"`
	// Rules are applied in order to headers that pass Gate.
	Rules []FuzzyRule `json:"rules" mapstructure:"rules"`
}

// DefaultFuzzyConfig returns the rewards-percentage heuristic.
func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{
		Gate:       `\breward|cashback\b`,
		GateWeight: 5,
		Reject:     -999,
		Rules: []FuzzyRule{
			{Pattern: `max|maximum|up\s*to|top`, Weight: 2},
			{Pattern: `%|\bpct\b|percent|percentage`, Weight: 2},
			{Pattern: `\bapr\b`, Weight: -6},
			{Pattern: `annual|fee`, Weight: -3},
		},
	}
}

type compiledRule struct {
	re     *regexp.Regexp
	weight float64
}

// FuzzyScorer scores headers against a compiled FuzzyConfig.
type FuzzyScorer struct {
	gate       *regexp.Regexp
	gateWeight float64
	reject     float64
	rules      []compiledRule
}

// NewFuzzyScorer compiles cfg.
func NewFuzzyScorer(cfg FuzzyConfig) (*FuzzyScorer, error) {
	gate, err := regexp.Compile(cfg.Gate)
	if err != nil {
		return nil, fmt.Errorf("compile gate %q: %w", cfg.Gate, err)
	}
	s := &FuzzyScorer{gate: gate, gateWeight: cfg.GateWeight, reject: cfg.Reject}
	for _, r := range cfg.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Pattern, err)
		}
		s.rules = append(s.rules, compiledRule{re: re, weight: r.Weight})
	}
	return s, nil
}

// Score returns the heuristic score of one header.
func (s *FuzzyScorer) Score(header string) float64 {
	name := strings.ToLower(header)
	if !s.gate.MatchString(name) {
		return s.reject
	}
	score := s.gateWeight
	for _, r := range s.rules {
		if r.re.MatchString(name) {
			score += r.weight
		}
	}
	return score
}

// Find returns the highest-scoring header. Ties go to the first occurrence and
// nothing is returned unless the best score is positive.
func (s *FuzzyScorer) Find(headers []string) (string, bool) {
	best, bestScore := "", math.Inf(-1)
	for _, h := range headers {
		if sc := s.Score(h); sc > bestScore {
			best, bestScore = h, sc
		}
	}
	if bestScore > 0 {
		return best, true
	}
	return "", false
}

// Key returns a stable digest of an ordered header set.
func Key(headers []string) string {
	h := sha1.Sum([]byte(strings.Join(headers, "\x1f")))
	return hex.EncodeToString(h[:])
}

type fuzzyEntry struct {
	header string
	ok     bool
}

// FuzzyCache memoizes fuzzy lookups per header set. It is owned by a session
// and cleared at the start of every load.
type FuzzyCache struct {
	mu      sync.Mutex
	entries map[string]fuzzyEntry
}

// NewFuzzyCache creates an empty cache.
func NewFuzzyCache() *FuzzyCache {
	return &FuzzyCache{entries: make(map[string]fuzzyEntry)}
}

// Resolve returns the memoized lookup for headers, computing it with s on a miss.
func (c *FuzzyCache) Resolve(headers []string, s *FuzzyScorer) (string, bool) {
	key := Key(headers)
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.header, e.ok
	}
	h, ok := s.Find(headers)
	c.entries[key] = fuzzyEntry{header: h, ok: ok}
	return h, ok
}

// Clear drops every memoized lookup.
func (c *FuzzyCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]fuzzyEntry)
	c.mu.Unlock()
}

// Len returns the number of memoized header sets.
func (c *FuzzyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
