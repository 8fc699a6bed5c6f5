// Package metrics exposes the Prometheus instruments of the fulfillment
// service. Collectors are registered through promauto at package init and
// scraped via the /metrics endpoint.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks HTTP requests by method, route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// OrdersTotal counts order status transitions applied by the service.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders by resulting status",
		},
		[]string{"status"},
	)

	// ReservationsReleasedTotal counts stock holds released by the sweep.
	ReservationsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_released_total",
			Help: "Total number of expired stock reservations released",
		},
	)

	// OrdersExpiredTotal counts orders expired by the sweep.
	OrdersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_expired_total",
			Help: "Total number of orders expired for lack of payment",
		},
	)

	// RoutesCreatedTotal counts routes produced by the assignment job.
	RoutesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "routes_created_total",
			Help: "Total number of delivery routes created",
		},
	)

	// OrdersFlaggedTotal counts orders skipped by the planner because their
	// delivery deadline had already passed.
	OrdersFlaggedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_flagged_total",
			Help: "Total number of orders flagged as past deadline during assignment",
		},
	)

	// InvalidTransitionsTotal counts status changes rejected by the order
	// and route state machines.
	InvalidTransitionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invalid_transitions_total",
			Help: "Total number of rejected status transitions",
		},
	)
)

// EchoMiddleware records request counts and latencies for every route.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			RequestsTotal.WithLabelValues(c.Request().Method, c.Path(), status).Inc()
			RequestDuration.WithLabelValues(c.Request().Method, c.Path()).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
