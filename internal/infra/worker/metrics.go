package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"records-atlas/internal/pkg/config"
)

// Job label values for worker metrics. Each scheduled job reports under its
// own label so a stuck sweep and a stuck poll alert separately.
const (
	JobSweep = "sweep"
	JobPoll  = "poll"
)

// WorkerMetrics tracks the scheduled jobs of the worker process.
//
// Metrics:
//   - atlas_worker_job_runs_total{job,status}: runs by job and outcome
//   - atlas_worker_job_duration_seconds{job}: run duration histogram
//   - atlas_worker_links_checked_total: links probed across all sweeps
//   - atlas_worker_job_last_success_timestamp{job}: last successful run
//
// Configuration fallback metrics are provided by the embedded ConfigMetrics
// under the worker_config_* prefix.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal            *prometheus.CounterVec
	JobDurationSeconds      *prometheus.HistogramVec
	LinksCheckedTotal       prometheus.Counter
	JobLastSuccessTimestamp *prometheus.GaugeVec
}

// NewWorkerMetrics creates and registers the worker metric set with the
// default Prometheus registry.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_worker_job_runs_total",
			Help: "Total number of scheduled job runs by job and status (success/failure)",
		}, []string{"job", "status"}),

		JobDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_worker_job_duration_seconds",
			Help:    "Duration of scheduled job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}, []string{"job"}),

		LinksCheckedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atlas_worker_links_checked_total",
			Help: "Total number of resource links probed across all sweep runs",
		}),

		JobLastSuccessTimestamp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "atlas_worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
	}
}

// RecordJobRun counts a run of the named job. Status is "success" or
// "failure".
func (m *WorkerMetrics) RecordJobRun(job, status string) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes the run duration of the named job.
func (m *WorkerMetrics) RecordJobDuration(job string, seconds float64) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordLinksChecked adds the number of links probed by a sweep run.
func (m *WorkerMetrics) RecordLinksChecked(count int) {
	if count > 0 {
		m.LinksCheckedTotal.Add(float64(count))
	}
}

// RecordLastSuccess stamps the named job's last successful run at now.
func (m *WorkerMetrics) RecordLastSuccess(job string) {
	m.JobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}
