package completion

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder records completion outcomes. Tests inject their own recorder.
type MetricsRecorder interface {
	// RecordRequest records one completion call and whether it produced text.
	RecordRequest(success bool, duration time.Duration)
	// RecordResponseLength records the length of a generated reply in runes.
	RecordResponseLength(length int)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	length   prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateCounterVec gets an existing counter vector or registers a new one.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateHistogram gets an existing histogram or registers a new one.
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "digest_completion_requests_total",
				Help: "Total number of chat completion requests by outcome",
			}, []string{"outcome"}), // outcome: success|fallback
			duration: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "digest_completion_duration_seconds",
				Help:    "Time taken by a chat completion request",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			length: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "digest_completion_response_length_characters",
				Help:    "Distribution of completion lengths in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 1000, 1500, 3000, 6000},
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "fallback"
	}
	p.requests.WithLabelValues(outcome).Inc()
	p.duration.Observe(duration.Seconds())
}

// RecordResponseLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordResponseLength(length int) {
	p.length.Observe(float64(length))
}
