// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_evaluations_total",
			Help: "Total number of candidate evaluations by verdict",
		},
		[]string{"verdict"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_evaluation_failures_total",
			Help: "Non-match evaluations by failing gate",
		},
		[]string{"reason"},
	)

	QueuePopulationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_queue_populations_total",
			Help: "Total number of wholesale queue populations",
		},
	)

	QueueGoodMatchRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_queue_good_match_ratio",
			Help:    "Share of true matches in each populated queue",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	PostsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_posts_generated_total",
			Help: "Total number of feed posts generated by source",
		},
		[]string{"source"},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_decisions_total",
			Help: "Total number of graded decisions by outcome",
		},
		[]string{"outcome"},
	)

	SessionAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_session_accuracy_percent",
			Help: "Accuracy of the most recently graded session",
		},
	)

	SessionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_sessions_completed_total",
			Help: "Total number of sessions with all decisions graded",
		},
	)

	ContentLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "content_load_duration_seconds",
			Help: "Duration of content pack loads in seconds",
		},
		[]string{"source"},
	)
)

// RecordEvaluation bumps the verdict counter and, for non-matches, the
// failing gate counter.
func RecordEvaluation(isMatch bool, reason string) {
	verdict := "match"
	if !isMatch {
		verdict = "non_match"
		if reason != "" {
			EvaluationFailures.WithLabelValues(reason).Inc()
		}
	}
	EvaluationsTotal.WithLabelValues(verdict).Inc()
}

// RecordDecision bumps the confusion-matrix counter.
func RecordDecision(outcome string) {
	DecisionsTotal.WithLabelValues(outcome).Inc()
}
