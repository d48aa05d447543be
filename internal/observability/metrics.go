// Package observability holds the Prometheus collectors of the analytics service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "petdex_analytics"

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "page_requests_total",
		Help:      "Upstream page requests, labeled by telemetry kind and outcome.",
	}, []string{"kind", "outcome"})

	upstreamRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "retries_total",
		Help:      "Upstream page request retries, labeled by telemetry kind.",
	}, []string{"kind"})

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching every page of a telemetry collection.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"kind"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Snapshot cache lookups, labeled by telemetry kind and result.",
	}, []string{"kind", "result"})

	classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "classifications_total",
		Help:      "Heart-rate classifications, labeled by tier.",
	}, []string{"tier"})

	regressionFits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analytics",
		Name:      "regression_fits_total",
		Help:      "Regression fits, labeled by outcome.",
	}, []string{"outcome"})

	alertsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "alerts",
		Name:      "published_total",
		Help:      "Heart-rate alerts handed to the queue, labeled by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		upstreamRequests,
		upstreamRetries,
		fetchDuration,
		cacheLookups,
		classifications,
		regressionFits,
		alertsPublished,
	)
}

// RecordPageRequest counts one upstream page request.
func RecordPageRequest(kind string, err error) {
	upstreamRequests.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordRetry counts one upstream retry.
func RecordRetry(kind string) {
	upstreamRetries.WithLabelValues(kind).Inc()
}

// ObserveFetch records how long a full collection fetch took.
func ObserveFetch(kind string, started time.Time) {
	fetchDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// RecordCacheLookup counts a snapshot cache hit or miss.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(kind, result).Inc()
}

// RecordClassification counts a classification in its tier.
func RecordClassification(tier string) {
	classifications.WithLabelValues(tier).Inc()
}

// RecordFit counts a regression fit attempt.
func RecordFit(err error) {
	regressionFits.WithLabelValues(outcome(err)).Inc()
}

// RecordAlert counts an alert publish attempt.
func RecordAlert(err error) {
	alertsPublished.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
