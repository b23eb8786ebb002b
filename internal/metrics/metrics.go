// Package metrics exposes Prometheus collectors for the lead pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector.
const Namespace = "job_leads"

// Metrics holds the pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	PagesFetchedTotal  *prometheus.CounterVec
	LeadsTotal         *prometheus.CounterVec
	OutreachEmails     *prometheus.CounterVec
	PipelineRunsTotal  *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PagesFetchedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "scraper",
				Name:      "pages_fetched_total",
				Help:      "Pages fetched by the scraper, by result",
			},
			[]string{"result"},
		),
		LeadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "pipeline",
				Name:      "leads_total",
				Help:      "Feed items processed, by outcome",
			},
			[]string{"outcome"},
		),
		OutreachEmails: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "outreach",
				Name:      "emails_total",
				Help:      "Application emails attempted, by result",
			},
			[]string{"result"},
		),
		PipelineRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Pipeline runs, by outcome",
			},
			[]string{"outcome"},
		),
		RunDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "pipeline",
				Name:      "run_duration_seconds",
				Help:      "Wall time of a full pipeline run",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
	}
}

// PageFetched counts one page fetch ("ok" or "error").
func (m *Metrics) PageFetched(result string) {
	if m == nil {
		return
	}
	m.PagesFetchedTotal.WithLabelValues(result).Inc()
}

// LeadProcessed counts one feed item by outcome (stored, exists, no_links, no_contacts, ...).
func (m *Metrics) LeadProcessed(outcome string) {
	if m == nil {
		return
	}
	m.LeadsTotal.WithLabelValues(outcome).Inc()
}

// EmailSent counts one outreach attempt ("sent", "failed" or "skipped").
func (m *Metrics) EmailSent(result string) {
	if m == nil {
		return
	}
	m.OutreachEmails.WithLabelValues(result).Inc()
}

// RunFinished records a run outcome and its duration.
func (m *Metrics) RunFinished(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	m.RunDurationSeconds.Observe(elapsed.Seconds())
}
