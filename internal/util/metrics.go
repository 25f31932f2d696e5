package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_runs_total",
		Help: "Total number of order sync runs",
	}, []string{"result"})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of order sync runs",
		Buckets: prometheus.DefBuckets,
	})

	OrdersUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_upserted_total",
		Help: "Total number of orders upserted from the feed",
	})

	ProductsUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_upserted_total",
		Help: "Total number of products upserted from the feed",
	})

	FeedPagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_pages_fetched_total",
		Help: "Total number of feed pages fetched",
	}, []string{"resource"})

	RegistrationsSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registrations_synced_total",
		Help: "Total number of registrations derived from orders",
	})

	RegistrationsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_skipped_total",
		Help: "Total number of line items skipped during derivation",
	}, []string{"reason"})

	DerivationRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "derivation_runs_total",
		Help: "Total number of registration derivation runs",
	}, []string{"result"})

	TransfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_transfers_total",
		Help: "Total number of completed roster transfers",
	})

	TransfersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_transfers_failed_total",
		Help: "Total number of failed roster transfers",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
