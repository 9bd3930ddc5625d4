package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fody-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "uploads_total",
			Help:      "Total photo uploads",
		},
		[]string{"status", "reason"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes of accepted photo uploads",
		},
	)

	// Spatial query counters
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "queries_total",
			Help:      "Total photo search queries",
		},
		[]string{"kind"},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "storage_operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"operation", "status"},
	)

	// Thumbnail derivation duration
	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fody",
			Subsystem: "api",
			Name:      "thumbnail_duration_seconds",
			Help:      "Thumbnail derivation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a photo upload outcome
func RecordUpload(status, reason string, bytes int64) {
	UploadsTotal.WithLabelValues(status, reason).Inc()
	if status == "success" {
		UploadBytesTotal.Add(float64(bytes))
	}
}

// RecordQuery records a photo search query
func RecordQuery(kind string) {
	QueriesTotal.WithLabelValues(kind).Inc()
}

// RecordStorageOperation records a storage backend operation
func RecordStorageOperation(operation, status string) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordThumbnail records thumbnail derivation time
func RecordThumbnail(durationSec float64) {
	ThumbnailDuration.Observe(durationSec)
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RecordRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
