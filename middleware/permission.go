package middleware

import (
	"atomixlab/models"

	"github.com/gofiber/fiber/v2"
)

// RestrictTo returns a middleware that only lets through callers whose role is
// in the given set. Must run after Protect.
func RestrictTo(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to perform this action!", nil)
	}
}
