package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/auth"
)

// UserIDLocalKey is the key under which the guard stores the authenticated
// user's id in Fiber's context locals.
const UserIDLocalKey = "user_id"

// RequireAuth gates a route group behind a bearer access token.
//
// Behavior:
// - No Authorization header or no bearer token -> 401, request halted.
// - Token present but invalid or expired -> 403, request halted.
// - Valid -> user id stored in locals, request proceeds.
// The 401/403 responses intentionally carry no body.
func RequireAuth(accessSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).Send(nil)
		}

		userID, err := auth.ParseToken(token, accessSecret)
		if err != nil {
			return c.Status(fiber.StatusForbidden).Send(nil)
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}
