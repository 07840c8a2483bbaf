package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yt_spotify_conversions_total",
			Help: "Total number of conversion runs by terminal status",
		},
		[]string{"status"},
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yt_spotify_conversion_duration_seconds",
			Help:    "Duration of completed conversion runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	TracksMatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_tracks_matched_total",
			Help: "Total number of source tracks matched to a destination track",
		},
	)

	TracksUnmatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_tracks_unmatched_total",
			Help: "Total number of source tracks with no accepted match",
		},
	)

	SearchStrategyHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yt_spotify_search_strategy_hits_total",
			Help: "Accepted matches by the search strategy that produced them",
		},
		[]string{"strategy"},
	)

	TrackSearchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_track_search_errors_total",
			Help: "Total number of per-track search transport failures",
		},
	)

	BatchAddFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_batch_add_failures_total",
			Help: "Total number of failed add-tracks batches",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yt_spotify_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yt_spotify_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Cache metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_search_cache_hits_total",
			Help: "Total number of search cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yt_spotify_search_cache_misses_total",
			Help: "Total number of search cache misses",
		},
	)
)
