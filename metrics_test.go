package fulltext

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.docsIndexed(3)
	m.docRemoved()
	m.search("hit", 2*time.Millisecond)
	m.search("hit", time.Millisecond)
	m.search("zero_result", time.Millisecond)
	m.gateWait(GateWrite, time.Microsecond)
	m.terms(17)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"indexed", m.DocsIndexedTotal, 3},
		{"removed", m.DocsRemovedTotal, 1},
		{"hit", m.SearchQueriesTotal.WithLabelValues("hit"), 2},
		{"zero_result", m.SearchQueriesTotal.WithLabelValues("zero_result"), 1},
		{"terms", m.DictionaryTerms, 17},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	n, err := testutil.GatherAndCount(reg, "fulltext_search_latency_seconds", "fulltext_gate_wait_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("gathered %d histogram series, want 2", n)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	if !panics(func() { NewMetrics(reg) }) {
		t.Error("registering twice did not panic")
	}
	if panics(func() { NewMetrics(nil) }) {
		t.Error("unregistered metrics panicked")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	if panics(func() {
		m.docsIndexed(1)
		m.docRemoved()
		m.search("error", time.Second)
		m.gateWait(GateRead, time.Second)
		m.terms(1)
	}) {
		t.Error("nil Metrics panicked")
	}
}
