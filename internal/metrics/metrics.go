package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	WatermarksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watermark_images_total",
			Help: "Images run through the watermark pipeline",
		},
		[]string{"kind", "outcome"},
	)

	WatermarkDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watermark_duration_seconds",
			Help:    "Time spent decoding, compositing and encoding one image",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	FontFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watermark_font_fallbacks_total",
			Help: "Font lookups that did not resolve to the requested family",
		},
		[]string{"source"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watermark_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)

	QueueJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watermark_queue_jobs_total",
			Help: "Queued watermark jobs by outcome",
		},
		[]string{"status"},
	)

	BatchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "watermark_batch_in_flight",
			Help: "Images currently being exported by batch workers",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		WatermarksTotal,
		WatermarkDurationSeconds,
		FontFallbacksTotal,
		CacheLookupsTotal,
		QueueJobsTotal,
		BatchInFlight,
	)
}

// ObserveHTTPRequest records metrics for an HTTP request
func ObserveHTTPRequest(method, path, status string, startedAt time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, path, status).Observe(time.Since(startedAt).Seconds())
}

// ObserveWatermark records the outcome of one pipeline run.
func ObserveWatermark(kind string, err error, startedAt time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	WatermarksTotal.WithLabelValues(kind, outcome).Inc()
	WatermarkDurationSeconds.WithLabelValues(kind).Observe(time.Since(startedAt).Seconds())
}

func ObserveCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}
