// Package metrics exposes prometheus instruments for workflows, identifier
// allocation and seeding on a private registry.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Namespace prefixes the application's metric names.
const Namespace = "retail"

// Outcome labels for workflow counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the application's instruments.
type Metrics struct {
	registry   *prometheus.Registry
	workflows  *prometheus.CounterVec
	idAttempts *prometheus.HistogramVec
	seedRows   *prometheus.CounterVec
}

// New registers the instruments on a fresh registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_total",
			Help:      "Checkout workflow executions by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
		idAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "id_allocation_attempts",
			Help:      "Draws needed to allocate a free identifier.",
			Buckets:   []float64{1, 2, 3, 5, 8, 16, 32, 64},
		}, []string{"table"}),
		seedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_rows_total",
			Help:      "Rows written by the bulk loader per table.",
		}, []string{"table"}),
	}
	m.registry.MustRegister(m.workflows, m.idAttempts, m.seedRows)
	return m
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Workflow counts one execution of workflow with outcome.
func (m *Metrics) Workflow(workflow, outcome string) {
	if m == nil {
		return
	}
	m.workflows.WithLabelValues(workflow, outcome).Inc()
}

// IDAllocated observes how many draws an allocation on table took.
// Its signature matches idgen.Generator.OnAllocate.
func (m *Metrics) IDAllocated(table string, attempts int) {
	if m == nil {
		return
	}
	m.idAttempts.WithLabelValues(table).Observe(float64(attempts))
}

// SeedRows counts rows written to table by the bulk loader.
func (m *Metrics) SeedRows(table string, n int) {
	if m == nil {
		return
	}
	m.seedRows.WithLabelValues(table).Add(float64(n))
}

// WriteText writes every gathered metric family in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
