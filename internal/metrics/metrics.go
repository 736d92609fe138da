// Package metrics counts conversion runs in a private Prometheus registry.
//
// A CLI process does not serve /metrics; the registry is written once, in
// the node_exporter textfile format, when the process finishes.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "case2geojson"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the conversion counters.
//
// A nil *Metrics is valid and records nothing.
//
// Thread-safety: safe for concurrent use; batch conversions share one value.
type Metrics struct {
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	statements prometheus.Counter
	quads      prometheus.Counter
	features   prometheus.Counter
	geometries prometheus.Counter
	defects    *prometheus.CounterVec
}

// New creates Metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Conversion runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one conversion run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		statements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Statements produced by JSON-LD expansion.",
		}),
		quads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quads_inserted_total",
			Help:      "Quads newly added to the graph store.",
		}),
		features: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_total",
			Help:      "GeoJSON features emitted.",
		}),
		geometries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geometries_total",
			Help:      "Features emitted with a Point geometry.",
		}),
		defects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "defects_total",
			Help:      "Non-fatal defects by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.runs, m.duration, m.statements, m.quads, m.features, m.geometries, m.defects)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunFinished records one run.
func (m *Metrics) RunFinished(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// AddStatements counts expanded statements.
func (m *Metrics) AddStatements(n int) {
	if m == nil {
		return
	}
	m.statements.Add(float64(n))
}

// AddQuads counts inserted quads.
func (m *Metrics) AddQuads(n int) {
	if m == nil {
		return
	}
	m.quads.Add(float64(n))
}

// AddFeatures counts emitted features and how many carry a geometry.
func (m *Metrics) AddFeatures(features, geometries int) {
	if m == nil {
		return
	}
	m.features.Add(float64(features))
	m.geometries.Add(float64(geometries))
}

// AddDefect counts one defect of the given kind.
func (m *Metrics) AddDefect(kind string) {
	if m == nil {
		return
	}
	m.defects.WithLabelValues(kind).Inc()
}

// WriteFile writes the registry to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
