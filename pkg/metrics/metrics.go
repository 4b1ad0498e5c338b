package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_cache_refresh_total",
			Help: "Snapshot refreshes of the order collection",
		},
		[]string{"result"}, // ok|error
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_cache_lookups_total",
			Help: "Lookups by id against the current snapshot",
		},
		[]string{"op"}, // hit|miss
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_cache_size",
			Help: "Number of orders in the current snapshot",
		},
	)
)

var (
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_mutations_total",
			Help: "Create/update/delete submissions by outcome",
		},
		[]string{"op", "result"}, // op: create|update|delete; result: ok|invalid|transport
	)
	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_store_request_duration_seconds",
			Help:    "Latency of remote store calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "op"},
	)
)

var (
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalidation_events_published_total",
			Help: "Invalidation events written to the broker",
		},
		[]string{"topic"},
	)
	EventsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalidation_events_failed_total",
			Help: "Invalidation events that failed to publish or were dropped",
		},
		[]string{"topic", "reason"}, // write|dropped
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует все метрики; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			CacheRefresh, CacheLookups, CacheSize,
			Mutations, RemoteRequestDuration,
			EventsPublished, EventsFailed,
		} {
			if err := prometheus.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if !errors.As(err, &already) {
					panic(err)
				}
			}
		}
	})
}
