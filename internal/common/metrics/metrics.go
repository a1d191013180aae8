package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchability_predictions_total",
			Help: "Total number of opportunities scored",
		},
		[]string{"decision", "source"},
	)

	ScoringErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchability_scoring_errors_total",
			Help: "Total number of scoring failures by error code",
		},
		[]string{"code"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matchability_scoring_duration_seconds",
			Help:    "Duration of a single scoring pass in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"source"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchability_cache_lookups_total",
			Help: "Prediction cache lookups by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// DecisionLabel renders a decision the way it appears in responses.
func DecisionLabel(decision bool) string {
	if decision {
		return "True"
	}
	return "False"
}
