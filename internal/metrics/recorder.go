// Package metrics exports reconciliation run counters to Prometheus.
package metrics

import (
	"net/http"

	"reconciliation-service/internal/core/reconciliation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reconciliation"

// Recorder counts runs, invoice verdicts and issues per variant. It has its
// own registry so tests and multiple instances never collide.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	invoicesTotal *prometheus.CounterVec
	issuesTotal   *prometheus.CounterVec
}

// NewRecorder creates a recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of reconciliation runs.",
			},
			[]string{"variant"},
		),
		invoicesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_total",
				Help:      "Invoices evaluated, by verdict.",
			},
			[]string{"variant", "verdict"},
		),
		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_total",
				Help:      "Issues reported, by severity.",
			},
			[]string{"variant", "severity"},
		),
	}
	r.registry.MustRegister(r.runsTotal, r.invoicesTotal, r.issuesTotal)
	return r
}

// ObserveRun implements reconciliation.Recorder.
func (r *Recorder) ObserveRun(variant string, summary reconciliation.RunSummary) {
	r.runsTotal.WithLabelValues(variant).Inc()
	for verdict, n := range summary.Verdicts {
		r.invoicesTotal.WithLabelValues(variant, string(verdict)).Add(float64(n))
	}
	r.issuesTotal.WithLabelValues(variant, "error").Add(float64(summary.Errors))
	r.issuesTotal.WithLabelValues(variant, "warning").Add(float64(summary.Warnings))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
