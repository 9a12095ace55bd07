package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "image_uploads_total",
		Help:      "Image uploads by outcome.",
	}, []string{"outcome"})

	uploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "image_upload_source_bytes_total",
		Help:      "Source bytes of successfully stored images.",
	})

	uploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Name:      "image_upload_duration_seconds",
		Help:      "Time spent in the ingestion pipeline per image.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	orphansRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "storage_orphans_removed_total",
		Help:      "Stored objects removed because no catalog row referenced them.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func ObserveUpload(outcome string, sourceBytes int64, d time.Duration) {
	uploadsTotal.WithLabelValues(outcome).Inc()
	uploadDuration.Observe(d.Seconds())
	if sourceBytes > 0 {
		uploadBytes.Add(float64(sourceBytes))
	}
}

func OrphansRemoved(n int) {
	orphansRemoved.Add(float64(n))
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
