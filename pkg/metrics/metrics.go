package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brew_predictor_calls_total",
			Help: "Predictor invocations by outcome",
		},
		[]string{"outcome"},
	)

	PredictorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brew_predictor_duration_seconds",
			Help:    "Wall time of predictor invocations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 20},
		},
	)

	FeedbackAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brew_feedback_appends_total",
			Help: "Feedback records appended by verdict",
		},
		[]string{"verdict"},
	)

	WeatherLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brew_weather_lookups_total",
			Help: "Weather source lookups by result",
		},
		[]string{"result"},
	)
)

// Verdict labels a feedback record for FeedbackAppends.
func Verdict(liked bool) string {
	if liked {
		return "liked"
	}
	return "disliked"
}
