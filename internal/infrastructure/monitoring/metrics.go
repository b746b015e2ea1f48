package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	WishlistCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_cache_hits_total",
			Help: "Wishlist reads served from a fresh cache entry",
		},
	)

	WishlistCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_cache_misses_total",
			Help: "Wishlist reads that required a remote fetch",
		},
	)

	WishlistRefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_refresh_total",
			Help: "Successful wishlist cache refreshes",
		},
	)

	WishlistRefreshFailureTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_refresh_failure_total",
			Help: "Failed wishlist refreshes (stale entry kept)",
		},
	)

	ToggleAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_toggle_attempts_total",
			Help: "Total number of wishlist toggle attempts",
		},
	)

	ToggleRollbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_toggle_rollback_total",
			Help: "Optimistic toggles rolled back after a failed request",
		},
	)

	ToggleReconcileMismatchTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_toggle_reconcile_mismatch_total",
			Help: "Toggles where the server state diverged from the optimistic guess",
		},
	)
)

var (
	CheckoutAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Total number of checkout attempts",
		},
	)

	CheckoutSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_success_total",
			Help: "Checkouts that reached COMPLETED",
		},
	)

	CheckoutFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failure_total",
			Help: "Checkouts that terminated in FAILED, by the stage that failed",
		},
		[]string{"stage"},
	)
)
