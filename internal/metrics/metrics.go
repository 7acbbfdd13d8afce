package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Comment retrieval
	CommentPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comment_pages_fetched_total",
			Help: "Total number of comment thread pages fetched",
		},
	)

	CommentsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_fetched_total",
			Help: "Total number of top-level comments fetched",
		},
	)

	CommentItemsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comment_items_skipped_total",
			Help: "Total number of malformed comment thread items skipped",
		},
	)

	CommentFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comment_fetch_failures_total",
			Help: "Total number of comment fetches that stopped early",
		},
	)

	// Sentiment analysis
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_classifications_total",
			Help: "Total number of comment classifications",
		},
		[]string{"analyzer", "label"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_analysis_duration_seconds",
			Help:    "End to end analysis duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	ResultCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "environment"},
	)
)

func Init(serviceName, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, environment).Set(1)
}
