package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "textsql",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "textsql",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"method", "route"})

	pipelineStageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "textsql",
		Subsystem: "pipeline",
		Name:      "stage_total",
		Help:      "Pipeline stage runs by outcome.",
	}, []string{"stage", "outcome"})

	pipelineStageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "textsql",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Pipeline stage latency. Skipped stages are not observed.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"stage"})

	questionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "textsql",
		Name:      "questions_total",
		Help:      "Questions handled, by final status.",
	}, []string{"status"})
)

// ObserveStage records one stage run. outcome is "ok", "failed" or "skipped".
func ObserveStage(stage, outcome string, elapsed time.Duration) {
	pipelineStageTotal.WithLabelValues(stage, outcome).Inc()
	if outcome != "skipped" {
		pipelineStageDurationSeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
	}
}

// ObserveQuestion counts a finished Ask call: "answered", "invalid" or "error".
func ObserveQuestion(status string) {
	questionsTotal.WithLabelValues(status).Inc()
}
