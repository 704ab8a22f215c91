package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coordclient_weather_lookups_total",
			Help: "Total Open-Meteo current-weather lookups",
		},
		[]string{"status"},
	)

	WeatherLookupLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coordclient_weather_lookup_latency_seconds",
			Help:    "Open-Meteo lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coordclient_notification_fetches_total",
			Help: "Total notification count/list fetches",
		},
		[]string{"endpoint", "status"},
	)

	NotificationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coordclient_notification_mutations_total",
			Help: "Total notification mark-read/read-all/delete-all requests",
		},
		[]string{"action", "status"},
	)

	StaleResponsesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coordclient_stale_responses_discarded_total",
			Help: "Responses dropped because a newer refresh was already issued",
		},
		[]string{"kind"},
	)
)
