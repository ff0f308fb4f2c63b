// Package metrics exports extraction telemetry as Prometheus metrics.
//
// Metrics:
//   - sercha_extract_field_outcomes_total{outcome} - fields processed by outcome
//   - sercha_extract_documents_total - documents run through extraction
//   - sercha_extract_run_duration_seconds - histogram of per-document run time
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
)

// Ensure Observer implements the interface.
var _ driven.ExtractionObserver = (*Observer)(nil)

// Observer records extraction outcomes on a Prometheus registry.
// Field names are not used as labels to keep cardinality bounded.
type Observer struct {
	registry    *prometheus.Registry
	outcomes    *prometheus.CounterVec
	documents   prometheus.Counter
	runDuration prometheus.Histogram
}

// NewObserver creates an observer with its own registry.
// Using a private registry lets tests and multiple instances coexist.
func NewObserver() *Observer {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	o := &Observer{
		registry: reg,
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sercha_extract_field_outcomes_total",
				Help: "Total number of fields processed, by outcome",
			},
			[]string{"outcome"},
		),
		documents: factory.NewCounter(prometheus.CounterOpts{
			Name: "sercha_extract_documents_total",
			Help: "Total number of documents run through extraction",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sercha_extract_run_duration_seconds",
			Help:    "Duration of extraction runs in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	// Pre-create every outcome so zero counts are exported.
	for _, outcome := range []domain.FieldOutcome{
		domain.OutcomeCreated,
		domain.OutcomeUpdated,
		domain.OutcomeNoMatch,
		domain.OutcomeNull,
		domain.OutcomeError,
	} {
		o.outcomes.WithLabelValues(string(outcome))
	}

	return o
}

// ObserveField records the outcome for one field.
func (o *Observer) ObserveField(_ string, outcome domain.FieldOutcome) {
	o.outcomes.WithLabelValues(string(outcome)).Inc()
}

// ObserveRun records a completed run over one document.
func (o *Observer) ObserveRun(duration time.Duration, _ int) {
	o.documents.Inc()
	o.runDuration.Observe(duration.Seconds())
}

// Registry returns the registry holding the observer's metrics.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler returns an HTTP handler serving the metrics in exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
