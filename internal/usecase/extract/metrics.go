package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// extractionTotal tracks extraction results per source kind
	extractionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_extraction_total",
			Help: "Total number of content extractions",
		},
		[]string{"source", "status"}, // source: transcript|article, status: success|absent
	)

	// transcriptFallbackTotal tracks transcript lookups that needed the all-languages retry
	transcriptFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_transcript_language_fallback_total",
			Help: "Total number of transcript lookups retried with every listed language",
		},
	)
)

func recordExtraction(source string, ok bool) {
	status := "success"
	if !ok {
		status = "absent"
	}
	extractionTotal.WithLabelValues(source, status).Inc()
}
