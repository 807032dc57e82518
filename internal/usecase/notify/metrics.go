package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for alert dispatch. All metrics are labelled by
// channel so Slack and Discord failures alert independently.
var (
	alertsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_alerts_dispatched_total",
		Help: "Total number of dead-link alerts dispatched by channel",
	}, []string{"channel"})

	alertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_alerts_sent_total",
		Help: "Total number of dead-link alerts by channel and status (success/failure)",
	}, []string{"channel", "status"})

	alertDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_alert_duration_seconds",
		Help:    "Duration of alert delivery in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"channel"})

	alertsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_alerts_dropped_total",
		Help: "Total number of alerts dropped by channel and reason (pool_full/circuit_open)",
	}, []string{"channel", "reason"})

	alertCircuitBreakerOpenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_alert_circuit_breaker_open_total",
		Help: "Total number of circuit breaker open events by channel",
	}, []string{"channel"})

	alertActiveGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atlas_alert_active_goroutines",
		Help: "Number of alert goroutines currently in flight",
	})

	alertChannelsEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atlas_alert_channels_enabled",
		Help: "Number of alert channels currently enabled",
	})
)

// RecordDispatch counts an alert handed to a channel goroutine.
func RecordDispatch(channel string) {
	alertsDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordSuccess counts a delivered alert and observes its duration.
func RecordSuccess(channel string, duration time.Duration) {
	alertsSentTotal.WithLabelValues(channel, "success").Inc()
	alertDurationSeconds.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure counts a failed alert and observes its duration.
func RecordFailure(channel string, duration time.Duration) {
	alertsSentTotal.WithLabelValues(channel, "failure").Inc()
	alertDurationSeconds.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordDropped counts an alert dropped before delivery was attempted.
func RecordDropped(channel, reason string) {
	alertsDroppedTotal.WithLabelValues(channel, reason).Inc()
}

// RecordCircuitBreakerOpen counts a circuit breaker opening for a channel.
func RecordCircuitBreakerOpen(channel string) {
	alertCircuitBreakerOpenTotal.WithLabelValues(channel).Inc()
}

// IncrementActiveGoroutines tracks an alert goroutine starting.
func IncrementActiveGoroutines() {
	alertActiveGoroutines.Inc()
}

// DecrementActiveGoroutines tracks an alert goroutine finishing.
func DecrementActiveGoroutines() {
	alertActiveGoroutines.Dec()
}

// SetChannelsEnabled records how many channels are enabled.
func SetChannelsEnabled(count float64) {
	alertChannelsEnabled.Set(count)
}
