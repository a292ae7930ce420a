package middleware

import (
	"log"
	"strings"

	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware validates the bearer token and attaches the caller's
// user ID to the request context. Handlers read it from c.Locals("user_id");
// there is no ambient session state anywhere else.
func UserContextMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		// only the Bearer scheme is accepted; anything else (Basic, bare
		// tokens) is rejected rather than guessed at
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header must use the Bearer scheme",
			})
		}

		userID, err := auth.ParseToken(token)
		if err != nil {
			log.Printf("❌ [USER_CTX] invalid token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// AdminOnly guards admin routes. Must run after UserContextMiddleware.
func AdminOnly(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		isAdmin, err := isAdminUser(auth, userID)
		if err != nil || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

func isAdminUser(auth *services.AuthService, userID string) (bool, error) {
	var isAdmin bool
	err := auth.DB.Table("users").
		Select("is_admin").
		Where("id = ?", userID).
		Scan(&isAdmin).Error
	return isAdmin, err
}
