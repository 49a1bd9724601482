package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geopin",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geopin",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Marker metrics
	MarkersCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "markers",
		Name:      "committed_total",
		Help:      "Total markers appended to a session store",
	}, []string{"mode"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "markers",
		Name:      "validation_failures_total",
		Help:      "Submissions blocked by unreadable or out-of-range input",
	}, []string{"field"})

	Conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "converter",
		Name:      "conversions_total",
		Help:      "Coordinate conversions by kind and resulting direction",
	}, []string{"kind", "direction"})

	// Session metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geopin",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Current number of live sessions",
	})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "sessions",
		Name:      "expired_total",
		Help:      "Sessions removed by the idle sweeper",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geopin",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	RenderPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geopin",
		Subsystem: "map",
		Name:      "publish_errors_total",
		Help:      "Failed render or viewport frame publishes",
	}, []string{"frame"})

	RenderPublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geopin",
		Subsystem: "map",
		Name:      "publish_duration_seconds",
		Help:      "Duration of render and viewport frame publishes",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"frame"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// Route pattern keeps session IDs out of the label set.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
