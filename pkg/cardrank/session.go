package cardrank

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/header"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/rank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/scoring"
	"github.com/ukaji3/cardrank-go/pkg/logging"
)

// Query selects and orders the rows returned by Rank.
type Query struct {
	Filters rank.Filters    `json:"filters"`
	Mode    models.SortMode `json:"mode"`
}

// LoadSummary describes the state derived from one table load.
type LoadSummary struct {
	LoadID    string         `json:"load_id"`
	Source    string         `json:"source,omitempty"`
	Rows      int            `json:"rows"`
	Headers   int            `json:"headers"`
	HeaderMap header.Map     `json:"header_map"`
	Anchors   models.Anchors `json:"anchors"`
	// Segments lists the detected score-like headers in scan order.
	Segments []string `json:"segments,omitempty"`
	// Warnings flags degenerate datasets; they never prevent ranking.
	Warnings []string `json:"warnings,omitempty"`
}

// Facets holds the distinct filter values present in the loaded table.
type Facets struct {
	Issuers   []string `json:"issuers"`
	Networks  []string `json:"networks"`
	Countries []string `json:"countries"`
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger sets the Session logger.
func WithLogger(l logging.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the Session measurement sink.
func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// loaded is the immutable state derived from one table.
type loaded struct {
	id      string
	headers []string
	rows    []models.Row
	m       header.Map
	anchors models.Anchors
	engine  *rank.Engine
}

// Session is the process-wide context owning the current table and the state
// derived from it. Load is the single writer; Rank, Facets and the accessors
// may be called concurrently with each other and with Load.
type Session struct {
	opts     Options
	logger   logging.Logger
	recorder Recorder
	lang     language.Tag
	resolver *header.Resolver
	cache    *header.FuzzyCache
	exclude  map[string]struct{}

	loadMu sync.Mutex
	mu     sync.RWMutex
	cur    *loaded
}

// NewSession validates opts and creates an empty Session.
func NewSession(opts Options, options ...SessionOption) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lang, err := opts.LanguageTag()
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:     opts,
		logger:   logging.Default(),
		recorder: nopRecorder{},
		lang:     lang,
		cache:    header.NewFuzzyCache(),
		exclude:  make(map[string]struct{}, len(opts.DetailExclude)),
	}
	for _, o := range options {
		o(s)
	}
	s.logger = s.logger.Named("cardrank")
	for _, h := range opts.DetailExclude {
		s.exclude[h] = struct{}{}
	}

	var scorer *header.FuzzyScorer
	if opts.ShouldUseFuzzyRewards() {
		if scorer, err = header.NewFuzzyScorer(opts.Fuzzy); err != nil {
			return nil, eris.Wrap(err, "cardrank: fuzzy header rules")
		}
	}
	s.resolver = header.NewResolver(opts.Aliases, header.RewardsPct, scorer, s.cache)
	return s, nil
}

// Load replaces the current table. The fuzzy header cache is cleared first,
// then the header map, rows, anchors and segment columns are derived afresh.
func (s *Session) Load(t models.Table) (LoadSummary, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	s.cache.Clear()

	headers := append([]string(nil), t.Headers...)
	m := s.resolver.Resolve(headers)

	rows := make([]models.Row, len(t.Records))
	for i, rec := range t.Records {
		rows[i] = m.NormalizeRow(rec)
	}
	anchors := scoring.ComputeAnchors(rows, m)

	segments, err := scoring.NewSegmentBuilder(headers, m, s.opts.Segments)
	if err != nil {
		return LoadSummary{}, eris.Wrap(err, "cardrank: build segment detector")
	}
	cols := segments.Columns()

	next := &loaded{
		id:      uuid.NewString(),
		headers: headers,
		rows:    rows,
		m:       m,
		anchors: anchors,
		engine:  rank.NewEngine(headers, m, anchors, segments, s.lang),
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()

	summary := LoadSummary{
		LoadID:    next.id,
		Source:    t.Source,
		Rows:      len(rows),
		Headers:   len(headers),
		HeaderMap: copyMap(m),
		Anchors:   anchors,
		Segments:  cols,
		Warnings:  degenerate(m, anchors, len(rows)),
	}

	took := time.Since(start)
	s.recorder.ObserveLoad(len(rows), len(headers), took)
	log := s.logger.With(logging.String("load_id", next.id))
	log.Info("table loaded",
		logging.String("source", t.Source),
		logging.Int("rows", len(rows)),
		logging.Int("headers", len(headers)),
		logging.String("rewards_header", anchors.RewardsHeader),
		logging.Float64("max_annual_fee", anchors.MaxAnnualFee),
		logging.Float64("min_rewards_pct", anchors.MinRewardsPct),
		logging.Float64("max_rewards_pct", anchors.MaxRewardsPct),
		logging.Strings("segments", cols),
		logging.Duration("took", took),
	)
	for _, w := range summary.Warnings {
		log.Warn(w)
	}
	return summary, nil
}

func degenerate(m header.Map, a models.Anchors, rows int) []string {
	var out []string
	if rows == 0 {
		out = append(out, "table has no data rows")
	}
	if _, ok := m.Lookup(header.Card); !ok {
		out = append(out, "no card name column resolved")
	}
	if a.MaxAnnualFee <= 0 {
		out = append(out, "no positive annual fee found; every row gets the full fee score")
	}
	if a.RewardsHeader == "" {
		out = append(out, "no rewards percentage column resolved")
	} else if a.MinRewardsPct == a.MaxRewardsPct {
		out = append(out, "rewards percentage is identical for every row")
	}
	return out
}

func (s *Session) current() *loaded {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Rank filters, scores, sorts and bands the current table.
// Before the first load, and when nothing matches, the result is empty.
func (s *Session) Rank(q Query) models.Result {
	start := time.Now()
	mode := models.ParseSortMode(string(q.Mode))

	cur := s.current()
	if cur == nil {
		return models.Result{Mode: mode, SortLabel: mode.Label(), BandLabel: mode.BandLabel(), Bands: []models.Band{}}
	}

	res := cur.engine.Rank(cur.rows, q.Filters, mode)
	res.LoadID = cur.id
	for i := range res.Bands {
		for j := range res.Bands[i].Rows {
			rr := &res.Bands[i].Rows[j]
			rr.Details = rr.Row.Details(cur.headers, s.exclude)
		}
	}

	took := time.Since(start)
	s.recorder.ObserveRank(string(mode), res.Count, took)
	s.logger.Debug("ranked",
		logging.String("load_id", cur.id),
		logging.String("mode", string(mode)),
		logging.Int("shown", res.Count),
		logging.Int("bands", len(res.Bands)),
		logging.Duration("took", took),
	)
	return res
}

// Facets returns the sorted distinct issuer, network and country values of the full table.
func (s *Session) Facets() Facets {
	cur := s.current()
	if cur == nil {
		return Facets{Issuers: []string{}, Networks: []string{}, Countries: []string{}}
	}
	var issuers, networks, countries []string
	for _, r := range cur.rows {
		issuers = append(issuers, r.Issuer)
		networks = append(networks, r.Network)
		countries = append(countries, r.Country)
	}
	return Facets{
		Issuers:   s.uniqueSorted(issuers),
		Networks:  s.uniqueSorted(networks),
		Countries: s.uniqueSorted(countries),
	}
}

func (s *Session) uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	c := collate.New(s.lang)
	sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i], out[j]) < 0 })
	return out
}

// HeaderMap returns a copy of the current header map, nil before the first load.
func (s *Session) HeaderMap() header.Map {
	cur := s.current()
	if cur == nil {
		return nil
	}
	return copyMap(cur.m)
}

// Anchors returns the anchors of the current table.
func (s *Session) Anchors() models.Anchors {
	cur := s.current()
	if cur == nil {
		return models.Anchors{}
	}
	return cur.anchors
}

// LoadID returns the id of the current load, empty before the first load.
func (s *Session) LoadID() string {
	cur := s.current()
	if cur == nil {
		return ""
	}
	return cur.id
}

// Headers returns the current table headers in their original order.
func (s *Session) Headers() []string {
	cur := s.current()
	if cur == nil {
		return nil
	}
	return append([]string(nil), cur.headers...)
}

func copyMap(m header.Map) header.Map {
	out := make(header.Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
