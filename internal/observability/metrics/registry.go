// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Catalog metrics track the state of the imported corpus
var (
	// JurisdictionsTotal tracks the number of jurisdictions in the catalog
	JurisdictionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_jurisdictions_total",
			Help: "Number of jurisdictions in the catalog",
		},
	)

	// ResourcesTotal tracks the number of catalogued resources
	ResourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_resources_total",
			Help: "Number of catalogued resources",
		},
	)

	// PagesImportedTotal counts corpus pages imported by outcome
	PagesImportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_pages_imported_total",
			Help: "Total number of corpus pages imported",
		},
		[]string{"status"},
	)
)

// Link check metrics track liveness sweep behaviour
var (
	// LinkChecksTotal counts liveness checks by outcome
	LinkChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_link_checks_total",
			Help: "Total number of link liveness checks",
		},
		[]string{"outcome"},
	)

	// LinkCheckDuration measures the duration of a single liveness check
	LinkCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_link_check_duration_seconds",
			Help:    "Duration of a single link liveness check",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// DeadLinks tracks the number of resources whose last check failed
	DeadLinks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_dead_links",
			Help: "Resources whose last liveness check failed",
		},
	)
)

// Feed watch metrics track gazette polling
var (
	// NoticesFetchedTotal counts gazette notices stored per resource
	NoticesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_notices_fetched_total",
			Help: "Total number of gazette notices stored",
		},
		[]string{"resource_id"},
	)

	// FeedPollErrorsTotal counts feed polling errors by reason
	FeedPollErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_feed_poll_errors_total",
			Help: "Total number of gazette feed polling errors",
		},
		[]string{"reason"},
	)
)

// RecordLinkCheck records the outcome and duration of one liveness check.
func RecordLinkCheck(alive bool, d time.Duration) {
	outcome := "dead"
	if alive {
		outcome = "alive"
	}
	LinkChecksTotal.WithLabelValues(outcome).Inc()
	LinkCheckDuration.Observe(d.Seconds())
}

// RecordPageImported records one corpus page import attempt.
func RecordPageImported(ok bool) {
	status := "error"
	if ok {
		status = "ok"
	}
	PagesImportedTotal.WithLabelValues(status).Inc()
}

// RecordNoticesFetched records notices stored for a resource's feed.
func RecordNoticesFetched(resourceID int64, count int64) {
	if count <= 0 {
		return
	}
	NoticesFetchedTotal.WithLabelValues(strconv.FormatInt(resourceID, 10)).Add(float64(count))
}

// RecordFeedPollError records one gazette polling failure.
func RecordFeedPollError(reason string) {
	FeedPollErrorsTotal.WithLabelValues(reason).Inc()
}
