package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlhealth_classifications_total",
		Help: "Total verdicts produced, by tier and level.",
	}, []string{"tier", "level"})

	UpstreamCallFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlhealth_upstream_call_failures_total",
		Help: "Total failed calls to the model-serving API, by endpoint.",
	}, []string{"endpoint"})

	UpstreamCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mlhealth_upstream_call_duration_seconds",
		Help:    "Duration of model-serving API calls.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	}, []string{"endpoint"})

	VerdictsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlhealth_verdicts_published_total",
		Help: "Total verdicts published to the live channel.",
	})
)
