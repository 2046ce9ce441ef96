package feedwatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_feed_polls_total",
			Help: "Total number of feed reads during polls",
		},
		[]string{"result"}, // result: success|failure
	)

	entriesAnnouncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_feed_entries_announced_total",
			Help: "Total number of new feed entries processed",
		},
		[]string{"delivery"}, // delivery: success|failure
	)

	feedsWatched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_feeds_watched",
			Help: "Number of feeds currently watched",
		},
	)
)

func recordPoll(ok bool) {
	if ok {
		feedPollsTotal.WithLabelValues("success").Inc()
		return
	}
	feedPollsTotal.WithLabelValues("failure").Inc()
}

func recordAnnouncement(delivered bool) {
	if delivered {
		entriesAnnouncedTotal.WithLabelValues("success").Inc()
		return
	}
	entriesAnnouncedTotal.WithLabelValues("failure").Inc()
}
