package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, listingRefreshesTotal) }

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Tracks cache hits and misses for various caches.",
	},
	[]string{"cache", "result"}, // e.g., cache="samples", result="hit"
)

var listingRefreshesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "listing_refreshes_total",
		Help: "Sample listing invalidations triggered by completed tasks.",
	},
	[]string{"stage"}, // 'immediate', 'delayed'
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncListingRefresh(stage string) {
	listingRefreshesTotal.WithLabelValues(norm(stage)).Inc()
}
