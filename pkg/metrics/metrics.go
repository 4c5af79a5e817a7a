// Package metrics provides Prometheus metrics for the digest pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "digest"
	subsystem = "pipeline"
)

// Run outcome label values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	rowsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rows_fetched_total",
		Help:      "Raw rows fetched from the store per dataset.",
	}, []string{"dataset"})

	qualityErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "quality_errors_total",
		Help:      "Rows rejected during dataset load.",
	})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_total",
		Help:      "Completed runs by outcome.",
	}, []string{"outcome"})

	deliveryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "delivery_errors_total",
		Help:      "Failed notification deliveries.",
	})
)

// RecordRowsFetched counts raw rows fetched for one dataset.
func RecordRowsFetched(dataset string, n int) {
	rowsFetched.WithLabelValues(dataset).Add(float64(n))
}

// RecordQualityErrors counts rows rejected during load.
func RecordQualityErrors(n int) {
	qualityErrors.Add(float64(n))
}

// ObserveStage records the wall time of one pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRun counts a completed run with its outcome.
func RecordRun(outcome string) {
	runsTotal.WithLabelValues(outcome).Inc()
}

// RecordDeliveryError counts a failed delivery.
func RecordDeliveryError() {
	deliveryErrors.Inc()
}
