package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "Resource not found") })
	e.GET("/broken", func(c echo.Context) error { return errors.New("db down") })

	for _, path := range []string{"/ok", "/missing", "/broken"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/ok", "GET", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/missing", "GET", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/broken", "GET", "500")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/broken", "GET", "200")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncAsyncWrite("notify", "ok")
	m.ObserveAI("breed", "ok", 0)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
