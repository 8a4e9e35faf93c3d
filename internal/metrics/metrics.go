// Package metrics exports audit results in the Prometheus text format so a
// node-exporter textfile collector can pick them up.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dbsmedya/kbaudit/internal/audit"
)

const metricsNamespace = "kbaudit"

// AuditMetrics holds the gauges describing the most recent audit run.
type AuditMetrics struct {
	registry *prometheus.Registry

	// CheckPassed is 1 when the check passed, 0 otherwise.
	// Labels: check
	CheckPassed *prometheus.GaugeVec

	// CheckFindings is the number of diagnostics reported by a check.
	// Labels: check
	CheckFindings *prometheus.GaugeVec

	ChecksFailed       prometheus.Gauge
	Documents          prometheus.Gauge
	RunDurationSeconds prometheus.Gauge
	LastRunTimestamp   prometheus.Gauge
}

// New creates the audit metrics on a private registry.
func New() *AuditMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &AuditMetrics{
		registry: reg,
		CheckPassed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "check_passed",
				Help:      "Whether the check passed in the last run (1) or failed (0)",
			},
			[]string{"check"},
		),
		CheckFindings: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "check_findings",
				Help:      "Number of diagnostics reported by the check in the last run",
			},
			[]string{"check"},
		),
		ChecksFailed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "checks_failed",
			Help:      "Number of failed checks in the last run",
		}),
		Documents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "documents",
			Help:      "Number of documents loaded in the last run",
		}),
		RunDurationSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run started",
		}),
	}
}

// Registry returns the registry holding the audit metrics.
func (m *AuditMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records the outcome of a run.
func (m *AuditMetrics) Observe(s *audit.Summary) {
	for _, r := range s.Results {
		passed := 0.0
		if r.Passed {
			passed = 1
		}
		m.CheckPassed.WithLabelValues(r.Name).Set(passed)
		m.CheckFindings.WithLabelValues(r.Name).Set(float64(r.Findings()))
	}
	m.ChecksFailed.Set(float64(s.Failed))
	m.Documents.Set(float64(s.Documents))
	m.RunDurationSeconds.Set(s.Duration.Seconds())
	m.LastRunTimestamp.Set(float64(s.StartedAt.Unix()))
}

// WriteTextfile writes the registry to path atomically.
func (m *AuditMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
