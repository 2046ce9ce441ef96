package worker_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"digestbot/internal/infra/worker"
)

func TestWorkerMetrics_RecordPoll(t *testing.T) {
	m := worker.NewWorkerMetrics()
	m.MustRegister(prometheus.NewRegistry())

	m.RecordPoll(2*time.Second, 3, true)
	m.RecordPoll(time.Second, 1, false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollRunsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PollRunsTotal.WithLabelValues("partial")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.EntriesAnnouncedTotal))
	assert.Greater(t, testutil.ToFloat64(m.PollLastSuccessTimestamp), float64(0))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PollDurationSeconds))
}

func TestWorkerMetrics_RegisterTwiceOnFreshRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		worker.NewWorkerMetrics().MustRegister(prometheus.NewRegistry())
		worker.NewWorkerMetrics().MustRegister(prometheus.NewRegistry())
	})
}
