package middleware

import (
	"net/http"
	"strconv"
	"time"

	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware records per-route request counts and latencies.
type MetricsMiddleware struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetricsMiddleware creates the middleware with its own registry so the
// default global registry stays untouched.
func NewMetricsMiddleware() *MetricsMiddleware {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medtracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medtracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "medtracker",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	registry.MustRegister(requests, duration, inFlight)

	return &MetricsMiddleware{
		registry: registry,
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}
}

// Registry exposes the metrics registry for the /metrics endpoint.
func (m *MetricsMiddleware) Registry() *prometheus.Registry {
	return m.registry
}

// Handle observes every request. Route templates (e.g. /hospitals/:id) are
// used as labels instead of raw paths to keep cardinality bounded.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		err := next(c)

		route := c.Path()
		if route == "" {
			route = "unknown"
		}
		method := c.Request().Method

		// The error handler runs after this middleware returns, so derive
		// the status from the error when one is propagating.
		status := c.Response().Status
		if err != nil {
			status = statusFromError(err)
		}

		m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}

func statusFromError(err error) int {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}
