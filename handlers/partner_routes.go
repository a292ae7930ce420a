package handlers

import (
	"errors"

	"couple-diary-system/middleware"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPartnerRoutes(app *fiber.App, auth *services.AuthService, partners *services.PartnerService) {
	secured := app.Group("/api/partner", middleware.UserContextMiddleware(auth))

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		partner, err := partners.Partner(userID)
		if err != nil {
			if errors.Is(err, services.ErrNotPaired) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"id":       partner.ID,
			"username": partner.Username,
		})
	})

	secured.Post("/connect", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		partner, err := partners.Connect(userID, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnknownCode):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrAlreadyPaired),
				errors.Is(err, services.ErrPartnerPaired),
				errors.Is(err, services.ErrSelfPairing):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "pairing failed"})
		}
		return c.JSON(fiber.Map{
			"message":  "partner connected",
			"id":       partner.ID,
			"username": partner.Username,
		})
	})

	secured.Post("/disconnect", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := partners.Disconnect(userID); err != nil {
			if errors.Is(err, services.ErrNotPaired) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "disconnect failed"})
		}
		return c.JSON(fiber.Map{"message": "partner disconnected"})
	})
}
