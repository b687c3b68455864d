// Package metrics counts what the matching engine does during a run. The
// counters live in a private registry and can be dumped in the Prometheus
// text format for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for provider calls.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	jobsMatched    *prometheus.CounterVec
	jobsFallback   prometheus.Counter
	providerCalls  *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	translatedTerm *prometheus.CounterVec
	scores         prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfit_jobs_matched_total",
				Help: "Jobs scored by the engine, by similarity mode",
			},
			[]string{"mode"},
		),
		jobsFallback: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "jobfit_jobs_fallback_total",
				Help: "Jobs that could not be scored and received the fallback score",
			},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfit_provider_calls_total",
				Help: "Embedding and translation provider calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfit_similarity_cache_lookups_total",
				Help: "Similarity cache lookups by result",
			},
			[]string{"result"},
		),
		translatedTerm: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfit_translated_terms_total",
				Help: "Terms sent for translation, by source",
			},
			[]string{"source"},
		),
		scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jobfit_total_score",
				Help:    "Distribution of total compatibility scores",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
	}

	m.registry.MustRegister(
		m.jobsMatched,
		m.jobsFallback,
		m.providerCalls,
		m.cacheLookups,
		m.translatedTerm,
		m.scores,
	)

	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) JobMatched(mode string, score int) {
	if m == nil {
		return
	}
	m.jobsMatched.WithLabelValues(mode).Inc()
	m.scores.Observe(float64(score))
}

func (m *Metrics) JobFallback() {
	if m == nil {
		return
	}
	m.jobsFallback.Inc()
}

func (m *Metrics) ProviderCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// TermsTranslated counts terms by where their translation came from:
// "provider", "memo" or "kept" when the original was retained.
func (m *Metrics) TermsTranslated(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.translatedTerm.WithLabelValues(source).Add(float64(n))
}

// WriteFile dumps all counters to path in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
