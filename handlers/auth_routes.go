package handlers

import (
	"errors"

	"couple-diary-system/middleware"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, auth *services.AuthService) {
	app.Post("/api/auth/register", func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "username, email and a password of at least 8 characters are required",
			})
		}

		user, err := auth.Register(req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		token, user, err := auth.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	})

	secured := app.Group("/api/profile", middleware.UserContextMiddleware(auth))

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var user struct {
			ID               string  `json:"id"`
			Username         string  `json:"username"`
			Email            string  `json:"email"`
			PartnerID        *string `json:"partner_id,omitempty"`
			PartnerCode      string  `json:"partner_code"`
			PhoneNumber      string  `json:"phone_number,omitempty"`
			SMSNotifications bool    `json:"sms_notifications"`
		}
		if err := auth.DB.Table("users").Where("id = ?", userID).Take(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile"})
		}
		return c.JSON(user)
	})

	secured.Put("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			PhoneNumber      string `json:"phone_number"`
			SMSNotifications bool   `json:"sms_notifications"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		user, err := auth.UpdateProfile(userID, req.PhoneNumber, req.SMSNotifications)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update profile"})
		}
		return c.JSON(user)
	})
}
