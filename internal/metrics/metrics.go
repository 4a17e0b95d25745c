package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedback_sessions_active",
		Help: "Currently active analysis sessions",
	})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_analyses_total",
		Help: "Processing calls by analysis type",
	}, []string{"analysis_type"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedback_analysis_duration_seconds",
		Help:    "End-to-end latency of one processing call",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_errors_total",
		Help: "Pipeline errors by code",
	}, []string{"code"})

	TriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_triggers_total",
		Help: "Feedback triggers emitted by type and priority",
	}, []string{"type", "priority"})

	HistoryTrims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedback_history_trims_total",
		Help: "Times a session history buffer was trimmed",
	})
)
