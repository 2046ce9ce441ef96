package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics tracks scheduled feed polls.
//
// Metrics:
//   - worker_poll_runs_total{status}: poll runs by status (success, partial)
//   - worker_poll_duration_seconds: poll duration histogram
//   - worker_poll_entries_announced_total: new entries announced across all polls
//   - worker_poll_last_success_timestamp: Unix time of the last clean poll
type WorkerMetrics struct {
	PollRunsTotal            *prometheus.CounterVec
	PollDurationSeconds      prometheus.Histogram
	EntriesAnnouncedTotal    prometheus.Counter
	PollLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the metrics without registering them.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		PollRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_poll_runs_total",
			Help: "Total number of feed poll runs by status",
		}, []string{"status"}),

		PollDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_poll_duration_seconds",
			Help:    "Duration of feed poll runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		EntriesAnnouncedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worker_poll_entries_announced_total",
			Help: "Total number of feed entries announced by the worker",
		}),

		PollLastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_poll_last_success_timestamp",
			Help: "Unix timestamp of the last poll without failures",
		}),
	}
}

// MustRegister registers every metric with reg.
func (m *WorkerMetrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.PollRunsTotal,
		m.PollDurationSeconds,
		m.EntriesAnnouncedTotal,
		m.PollLastSuccessTimestamp,
	)
}

// RecordPoll records one finished poll. A poll with failed feeds or
// undelivered announcements is recorded as partial.
func (m *WorkerMetrics) RecordPoll(duration time.Duration, announced int, clean bool) {
	m.PollDurationSeconds.Observe(duration.Seconds())
	m.EntriesAnnouncedTotal.Add(float64(announced))
	if clean {
		m.PollRunsTotal.WithLabelValues("success").Inc()
		m.PollLastSuccessTimestamp.SetToCurrentTime()
		return
	}
	m.PollRunsTotal.WithLabelValues("partial").Inc()
}
