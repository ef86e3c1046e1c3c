package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/cardrank-go/pkg/cardrank"
	"github.com/ukaji3/cardrank-go/pkg/cardrank/source"
)

var _ cardrank.Recorder = (*Metrics)(nil)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New("test")
	require.NoError(t, err)
	return m
}

func TestNew_EmptyNamespace(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestObserveLoad(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveLoad(10, 7, 2*time.Millisecond)
	m.ObserveLoad(3, 5, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loadsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tableRows))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.tableHeaders))
	assert.Equal(t, 1, testutil.CollectAndCount(m.loadDuration))
}

func TestObserveRank(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveRank("overall", 4, time.Millisecond)
	m.ObserveRank("overall", 2, time.Millisecond)
	m.ObserveRank("rewards", 4, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rankTotal.WithLabelValues("overall")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rankTotal.WithLabelValues("rewards")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsShown.WithLabelValues("overall")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.rankDuration))

	expected := `
# HELP test_rank_total Total number of ranking calls by sort mode.
# TYPE test_rank_total counter
test_rank_total{mode="overall"} 2
test_rank_total{mode="rewards"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_rank_total"))
}

func TestObserveSourceError(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveSourceError(nil)
	m.ObserveSourceError(source.NewSourceError("cards.xlsx", "xlsx", source.ErrNoTables))
	m.ObserveSourceError(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceErrsTotal.WithLabelValues("xlsx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceErrsTotal.WithLabelValues("unknown")))
}

func TestWriteToTextfile(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveLoad(2, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "cardrank.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test_loads_total 1")
	assert.Contains(t, string(data), "test_table_rows 2")

	err = m.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "cardrank.prom"))
	assert.Error(t, err)
}

func TestSessionRecordsMetrics(t *testing.T) {
	m := newTestMetrics(t)
	s, err := cardrank.NewSession(cardrank.DefaultOptions(), cardrank.WithRecorder(m))
	require.NoError(t, err)

	_, err = s.Load(source.Sample())
	require.NoError(t, err)
	res := s.Rank(cardrank.Query{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsTotal))
	assert.Equal(t, float64(source.Sample().Len()), testutil.ToFloat64(m.tableRows))
	assert.Equal(t, float64(res.Count), testutil.ToFloat64(m.rowsShown.WithLabelValues(string(res.Mode))))
}
