package handlers

import (
	"errors"
	"strconv"

	"couple-diary-system/middleware"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSocialRoutes(app *fiber.App, auth *services.AuthService, social *services.SocialService) {
	secured := app.Group("/api", middleware.UserContextMiddleware(auth))

	secured.Get("/encounters/:id/comments", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		comments, err := social.Comments(userID, c.Params("id"))
		if err != nil {
			return c.Status(socialErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(comments)
	})

	secured.Post("/encounters/:id/comments", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Body string `json:"body"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		comment, err := social.AddComment(userID, c.Params("id"), req.Body)
		if err != nil {
			return c.Status(socialErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	secured.Get("/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		messages, err := social.Thread(userID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list messages"})
		}
		return c.JSON(messages)
	})

	secured.Post("/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Body string `json:"body"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		message, err := social.SendMessage(userID, req.Body)
		if err != nil {
			return c.Status(socialErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(message)
	})

	secured.Post("/messages/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := social.MarkMessageRead(userID, c.Params("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "message not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to mark read"})
		}
		return c.JSON(fiber.Map{"message": "marked read"})
	})

	secured.Get("/messages/unread-count", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		count, err := social.UnreadMessages(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count"})
		}
		return c.JSON(fiber.Map{"unread": count})
	})
}

func socialErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEncounterNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNoAccess):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEmptyBody), errors.Is(err, services.ErrNotPaired):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
