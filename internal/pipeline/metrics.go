package pipeline

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded on hrdocs_pipeline_runs_total.
const (
	OutcomePersisted = "persisted"
	OutcomeAborted   = "aborted"
	OutcomeSuspended = "suspended"
)

type metrics struct {
	runs   *prometheus.CounterVec
	stages *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, logger *slog.Logger) *metrics {
	m := &metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrdocs_pipeline_runs_total",
			Help: "Document requests by outcome.",
		}, []string{"outcome"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrdocs_pipeline_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.runs, m.stages} {
			if err := reg.Register(c); err != nil {
				logger.Warn("pipeline metric registration failed", "error", err)
			}
		}
	}

	return m
}

func (m *metrics) observe(stage string, start time.Time) {
	m.stages.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *metrics) outcome(o string) {
	m.runs.WithLabelValues(o).Inc()
}
