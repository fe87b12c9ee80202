package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"method", "endpoint"},
	)

	// RenderRetries counts transient render-step failures that were retried,
	// labeled by step (acquire, cover content, questions content).
	RenderRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_step_retries_total",
			Help: "Transient render step failures that triggered a retry",
		},
		[]string{"step"},
	)

	// RenderFailures counts fatal render failures by stage.
	RenderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_failures_total",
			Help: "Fatal render pipeline failures",
		},
		[]string{"stage"},
	)

	// PipelineDuration observes the full generate pipeline (compose, two
	// renders, merge) per outcome.
	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdf_pipeline_duration_seconds",
			Help:    "Duration of the full PDF generation pipeline",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RenderRetries)
	prometheus.MustRegister(RenderFailures)
	prometheus.MustRegister(PipelineDuration)
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// Handler exposes the Prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
