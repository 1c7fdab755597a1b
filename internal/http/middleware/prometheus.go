package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics counts handled HTTP requests by method, route pattern, and status.
type RequestMetrics struct {
	requests *prometheus.CounterVec
}

// NewRequestMetrics registers the request counter on reg.
func NewRequestMetrics(reg prometheus.Registerer) (*RequestMetrics, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requests); err != nil {
		return nil, err
	}
	return &RequestMetrics{requests: requests}, nil
}

// Handler returns the counting middleware. Requests to /metrics itself are
// not counted.
func (m *RequestMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		err := c.Next()

		// Label by route pattern (/file/:id) rather than the raw path so the
		// cardinality stays bounded. Unmatched requests fall back to the path.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.requests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()

		return err
	}
}
