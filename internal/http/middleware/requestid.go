package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the id lives in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID assigns every request an id: the caller's X-Request-ID when one is
// provided, a fresh UUID otherwise. The id is stored in locals for the logger
// and echoed back on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
