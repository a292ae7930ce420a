package handlers

import (
	"errors"
	"strconv"

	"couple-diary-system/middleware"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupNotificationRoutes(app *fiber.App, auth *services.AuthService, notifications *services.NotificationService) {
	secured := app.Group("/api/notifications", middleware.UserContextMiddleware(auth))

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		unreadOnly := c.Query("unread") == "true"

		list, err := notifications.List(userID, unreadOnly, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list notifications"})
		}
		return c.JSON(list)
	})

	secured.Get("/unread-count", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		count, err := notifications.UnreadCount(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count"})
		}
		return c.JSON(fiber.Map{"unread": count})
	})

	secured.Post("/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := notifications.MarkRead(userID, c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "notification not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark read"})
		}
		return c.JSON(fiber.Map{"message": "marked read"})
	})

	secured.Post("/read-all", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		count, err := notifications.MarkAllRead(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark all read"})
		}
		return c.JSON(fiber.Map{"message": "all marked read", "count": count})
	})
}
