package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetUserID returns the caller identity resolved by the middleware, or 0 in
// single-tenant mode.
func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	if raw == "" {
		return 0
	}
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}
