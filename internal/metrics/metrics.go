// Package metrics exposes session activity as prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/source"
)

var defaultLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// Metrics implements cardrank.Recorder on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	loadsTotal      prometheus.Counter
	loadDuration    prometheus.Histogram
	tableRows       prometheus.Gauge
	tableHeaders    prometheus.Gauge
	rankTotal       *prometheus.CounterVec
	rankDuration    *prometheus.HistogramVec
	rowsShown       *prometheus.GaugeVec
	sourceErrsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them under namespace.
func New(namespace string) (*Metrics, error) {
	if namespace == "" {
		return nil, eris.New("metrics: namespace is required")
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loads_total",
		Help:      "Total number of tables loaded.",
	})
	m.loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "load_duration_seconds",
		Help:      "Time spent resolving headers, normalizing rows and computing anchors.",
		Buckets:   defaultLatencyBuckets,
	})
	m.tableRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "table_rows",
		Help:      "Data rows in the loaded table.",
	})
	m.tableHeaders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "table_headers",
		Help:      "Headers in the loaded table.",
	})
	m.rankTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rank_total",
		Help:      "Total number of ranking calls by sort mode.",
	}, []string{"mode"})
	m.rankDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rank_duration_seconds",
		Help:      "Time spent filtering, scoring, sorting and banding.",
		Buckets:   defaultLatencyBuckets,
	}, []string{"mode"})
	m.rowsShown = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rows_shown",
		Help:      "Rows returned by the most recent ranking call.",
	}, []string{"mode"})
	m.sourceErrsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_errors_total",
		Help:      "Total number of failed table reads by reader.",
	}, []string{"component"})

	collectors := []prometheus.Collector{
		m.loadsTotal,
		m.loadDuration,
		m.tableRows,
		m.tableHeaders,
		m.rankTotal,
		m.rankDuration,
		m.rowsShown,
		m.sourceErrsTotal,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, eris.Wrap(err, "metrics: register collector")
		}
	}
	return m, nil
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveLoad implements cardrank.Recorder.
func (m *Metrics) ObserveLoad(rows, headers int, took time.Duration) {
	m.loadsTotal.Inc()
	m.loadDuration.Observe(took.Seconds())
	m.tableRows.Set(float64(rows))
	m.tableHeaders.Set(float64(headers))
}

// ObserveRank implements cardrank.Recorder.
func (m *Metrics) ObserveRank(mode string, shown int, took time.Duration) {
	m.rankTotal.WithLabelValues(mode).Inc()
	m.rankDuration.WithLabelValues(mode).Observe(took.Seconds())
	m.rowsShown.WithLabelValues(mode).Set(float64(shown))
}

// ObserveSourceError counts a failed read, labeled by the reader that failed.
func (m *Metrics) ObserveSourceError(err error) {
	if err == nil {
		return
	}
	component := "unknown"
	var se *source.SourceError
	if errors.As(err, &se) && se.Component != "" {
		component = se.Component
	}
	m.sourceErrsTotal.WithLabelValues(component).Inc()
}

// WriteToTextfile writes every metric in the node_exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "metrics: write textfile %q", path)
	}
	return nil
}
