package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskcal_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskcal_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskcal_calendar_sync_runs_total",
		Help: "Calendar sync runs by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	syncItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskcal_calendar_sync_items_total",
		Help: "Events reconciled by calendar sync, by kind.",
	}, []string{"kind"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskcal_calendar_sync_duration_seconds",
		Help:    "Histogram of calendar sync run durations.",
		Buckets: prometheus.DefBuckets,
	})
)

// Middleware records request counts and latency labelled by the echo route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSync records one finished sync run.
func ObserveSync(trigger string, success bool, imported, exported, conflicts, errs int, took time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	syncRunsTotal.WithLabelValues(trigger, outcome).Inc()
	syncItemsTotal.WithLabelValues("imported").Add(float64(imported))
	syncItemsTotal.WithLabelValues("exported").Add(float64(exported))
	syncItemsTotal.WithLabelValues("conflict").Add(float64(conflicts))
	syncItemsTotal.WithLabelValues("error").Add(float64(errs))
	syncDuration.Observe(took.Seconds())
}
