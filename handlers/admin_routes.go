package handlers

import (
	"fmt"
	"log"
	"strings"

	"couple-diary-system/middleware"
	"couple-diary-system/models"
	"couple-diary-system/services"
	"couple-diary-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxIconSize = 512 * 1024 // SVGs are tiny; anything bigger is suspect

func SetupAdminRoutes(app *fiber.App, auth *services.AuthService, db *gorm.DB) {
	admin := app.Group("/api/admin", middleware.UserContextMiddleware(auth), middleware.AdminOnly(auth))

	admin.Get("/icons", func(c *fiber.Ctx) error {
		var icons []models.PositionIcon
		if err := db.Find(&icons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list icons"})
		}
		return c.JSON(icons)
	})

	// Upload a custom SVG icon for a position tag. Goes to R2 when configured,
	// local uploads/ otherwise.
	admin.Post("/icons", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		position := c.FormValue("position")
		if position == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "position is required"})
		}
		if _, ok := models.PositionCatalog[position]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown position tag"})
		}

		fileHeader, err := c.FormFile("icon")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
		}
		if fileHeader.Size > maxIconSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon too large (max 512KB)"})
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.Contains(contentType, "svg") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only SVG icons are accepted"})
		}

		key := fmt.Sprintf("icons/%s.svg", slug.Make(position))
		var iconURL string
		if utils.R2Configured() {
			iconURL, err = utils.UploadFileToR2(fileHeader, key)
			if err != nil {
				log.Printf("❌ Icon upload to R2 failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
			}
		} else {
			destPath := utils.GetUploadPath(key)
			if err := utils.SaveFile(fileHeader, destPath); err != nil {
				log.Printf("❌ Icon save failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
			}
			iconURL = "/uploads/" + key
		}

		icon := models.PositionIcon{Position: position, IconURL: iconURL, UploadedBy: userID}
		err = db.Where("position = ?", position).
			Assign(models.PositionIcon{IconURL: iconURL, UploadedBy: userID}).
			FirstOrCreate(&icon).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save icon"})
		}

		log.Printf("✅ Position icon uploaded: %s → %s", position, iconURL)
		return c.Status(fiber.StatusCreated).JSON(icon)
	})

	admin.Delete("/icons/:position", func(c *fiber.Ctx) error {
		res := db.Where("position = ?", c.Params("position")).Delete(&models.PositionIcon{})
		if res.Error != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete icon"})
		}
		if res.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no icon for that position"})
		}
		return c.JSON(fiber.Map{"message": "icon deleted"})
	})
}
