package fulltext

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of an Index. A nil *Metrics
// records nothing.
type Metrics struct {
	DocsIndexedTotal   prometheus.Counter
	DocsRemovedTotal   prometheus.Counter
	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      prometheus.Histogram
	GateWaitSeconds    *prometheus.HistogramVec
	DictionaryTerms    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg unless reg
// is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fulltext_docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		DocsRemovedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fulltext_docs_removed_total",
				Help: "Total documents removed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulltext_search_queries_total",
				Help: "Total searches by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fulltext_search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		GateWaitSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fulltext_gate_wait_seconds",
				Help:    "Time spent waiting for the index gate by mode.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 5},
			},
			[]string{"mode"},
		),
		DictionaryTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fulltext_dictionary_terms",
				Help: "Number of distinct terms in the index dictionary.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.DocsIndexedTotal,
			m.DocsRemovedTotal,
			m.SearchQueriesTotal,
			m.SearchLatency,
			m.GateWaitSeconds,
			m.DictionaryTerms,
		)
	}
	return m
}

func (m *Metrics) docsIndexed(n int) {
	if m != nil {
		m.DocsIndexedTotal.Add(float64(n))
	}
}

func (m *Metrics) docRemoved() {
	if m != nil {
		m.DocsRemovedTotal.Inc()
	}
}

func (m *Metrics) search(resultType string, d time.Duration) {
	if m != nil {
		m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
		m.SearchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) gateWait(mode GateMode, d time.Duration) {
	if m != nil {
		m.GateWaitSeconds.WithLabelValues(string(mode)).Observe(d.Seconds())
	}
}

func (m *Metrics) terms(n int) {
	if m != nil {
		m.DictionaryTerms.Set(float64(n))
	}
}
