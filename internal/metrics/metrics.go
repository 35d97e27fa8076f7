// Package metrics provides Prometheus metrics for contact searches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricSearchesTotal  = "contactrank_searches_total"
	MetricSearchDuration = "contactrank_search_duration_seconds"
	MetricSearchResults  = "contactrank_search_results"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeMatched   = "matched"
	OutcomeNoMatches = "no_matches"
	OutcomeError     = "error"
)

// Metrics contains the search collectors. All methods are safe for
// concurrent use.
type Metrics struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  prometheus.Histogram
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Total number of contact searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Histogram of contact search latency in seconds by outcome",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"outcome"},
		),
		searchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Number of contacts returned per successful search",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
			},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSearch records one search. results is ignored unless the outcome
// is OutcomeMatched.
func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration, results int) {
	m.searchesTotal.WithLabelValues(outcome).Inc()
	m.searchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == OutcomeMatched {
		m.searchResults.Observe(float64(results))
	}
}

// Collectors returns all collectors, for registration and tests.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.searchesTotal,
		m.searchDuration,
		m.searchResults,
	}
}
