package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. All methods are nil-safe so
// components can be built without metrics in tests.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	AIOutcomes   *prometheus.CounterVec
	AILatency    *prometheus.HistogramVec
	AsyncWrites  *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petconnect_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petconnect_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		AIOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petconnect_ai_requests_total",
			Help: "Model requests by flow and outcome",
		}, []string{"flow", "outcome"}), // flow: breed, advice; outcome: ok, invalid_input, upstream

		AILatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petconnect_ai_request_duration_seconds",
			Help:    "Latency of hosted model calls by flow",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"flow"}),

		AsyncWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "petconnect_async_writes_total",
			Help: "Non-blocking writes by task name and result",
		}, []string{"task", "result"}),
	}
}

// ObserveAI records one model flow invocation
func (m *Metrics) ObserveAI(flow, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AIOutcomes.WithLabelValues(flow, outcome).Inc()
	if d > 0 {
		m.AILatency.WithLabelValues(flow).Observe(d.Seconds())
	}
}

// IncAsyncWrite records a finished non-blocking write
func (m *Metrics) IncAsyncWrite(task, result string) {
	if m != nil {
		m.AsyncWrites.WithLabelValues(task, result).Inc()
	}
}

// Middleware records request counts and latency per registered route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			route := c.Path()
			method := c.Request().Method
			m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.HTTPLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
