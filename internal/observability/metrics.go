// Package observability exposes Prometheus metrics for the HTTP API,
// the ingest pipeline and the analytics engines.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gain",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests grouped by route, method and status code.",
	}, []string{"route", "method", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gain",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency per route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	workoutsIngestedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gain",
		Subsystem: "ingest",
		Name:      "workouts_total",
		Help:      "Number of workouts handled by the ingest pipeline, grouped by outcome.",
	}, []string{"outcome"})

	lastWorkoutGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gain",
		Subsystem: "ingest",
		Name:      "last_workout_timestamp_seconds",
		Help:      "Unix timestamp of the most recently ingested workout session.",
	})

	analyticsRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gain",
		Subsystem: "analytics",
		Name:      "engine_runs_total",
		Help:      "Number of analytics engine evaluations grouped by engine.",
	}, []string{"engine"})
)

func init() {
	prometheus.MustRegister(
		requestCounter,
		requestDuration,
		workoutsIngestedCounter,
		lastWorkoutGauge,
		analyticsRunCounter,
	)
}

// ObserveRequest records a completed HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	requestCounter.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordIngest updates the workout ingest counters.
func RecordIngest(inserted, skipped int) {
	workoutsIngestedCounter.WithLabelValues("inserted").Add(float64(inserted))
	workoutsIngestedCounter.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordWorkoutIngested updates the ingest watermark gauge.
func RecordWorkoutIngested(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWorkoutGauge.Set(float64(ts.Unix()))
}

// RecordAnalyticsRun counts one evaluation of the named engine.
func RecordAnalyticsRun(engine string) {
	analyticsRunCounter.WithLabelValues(engine).Inc()
}
