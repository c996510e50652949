package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// PublicEndpoint serves browser-facing POST endpoints: permissive CORS headers,
// 200 on preflight and 405 for any method other than POST.
func PublicEndpoint() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowMethods, "POST, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")

		switch c.Method() {
		case fiber.MethodOptions:
			c.Status(fiber.StatusOK)
			return nil
		case fiber.MethodPost:
			return c.Next()
		default:
			return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
				"error": "Method not allowed",
			})
		}
	}
}
