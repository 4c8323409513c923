package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/greenloop/ecoscan/server/utils"
)

// UserHeader is set by the auth gateway in front of this service.
// Session bootstrap itself lives there, not here.
const UserHeader = "X-User-ID"

// ExtractUser copies the authenticated user id into the request
// locals so handlers and logging can reach it.
func ExtractUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Get(UserHeader); id != "" {
			c.Locals("user_id", id)
		}
		return c.Next()
	}
}

// RequireUser rejects requests without an authenticated user.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := utils.UserID(c); !ok {
			return utils.SendUnauthorized(c, "Missing user identity")
		}
		return c.Next()
	}
}
