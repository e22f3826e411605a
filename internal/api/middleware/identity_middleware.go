package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Identity resolves the optional caller identity. A user id may arrive as a
// query parameter or header; with neither present the request runs in
// single-tenant mode. Requests are never rejected here.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("user_id")
		if userID == "" {
			userID = c.Get("X-User-ID")
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
