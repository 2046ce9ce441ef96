package fetcher

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"digestbot/internal/usecase/extract"
)

var (
	// webpageFetchTotal tracks webpage fetch results by outcome
	webpageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_webpage_fetch_total",
			Help: "Total number of webpage fetches",
		},
		[]string{"result"},
	)

	// webpageFetchDuration tracks webpage fetch latency
	webpageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_webpage_fetch_duration_seconds",
			Help:    "Webpage fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// fetchResult maps a fetch error to a low-cardinality label.
func fetchResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, extract.ErrInvalidURL), errors.Is(err, extract.ErrPrivateIP):
		return "rejected"
	case errors.Is(err, extract.ErrTimeout):
		return "timeout"
	case errors.Is(err, extract.ErrUnexpectedStatus):
		return "bad_status"
	case errors.Is(err, extract.ErrBodyTooLarge):
		return "too_large"
	case errors.Is(err, extract.ErrTooManyRedirects):
		return "redirects"
	case errors.Is(err, extract.ErrNoContent):
		return "empty"
	default:
		return "error"
	}
}

func recordFetch(err error, d time.Duration) {
	webpageFetchTotal.WithLabelValues(fetchResult(err)).Inc()
	webpageFetchDuration.Observe(d.Seconds())
}
