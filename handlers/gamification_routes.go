package handlers

import (
	"couple-diary-system/middleware"
	"couple-diary-system/models"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(app *fiber.App, auth *services.AuthService, gamification *services.GamificationService, challenges *services.ChallengeService) {
	secured := app.Group("/api", middleware.UserContextMiddleware(auth))

	secured.Get("/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		stats, err := gamification.EnsureStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load stats"})
		}
		return c.JSON(stats)
	})

	secured.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var catalog []models.Achievement
		if err := gamification.DB.Order("criteria_value ASC").Find(&catalog).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load achievements"})
		}

		var unlocks []models.UserAchievement
		if err := gamification.DB.Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load unlocks"})
		}
		unlockedAt := make(map[string]models.UserAchievement, len(unlocks))
		for _, ua := range unlocks {
			unlockedAt[ua.AchievementID] = ua
		}

		response := make([]fiber.Map, 0, len(catalog))
		for _, a := range catalog {
			entry := fiber.Map{
				"code":        a.Code,
				"name":        a.Name,
				"description": a.Description,
				"tier":        a.Tier,
				"icon_url":    a.IconURL,
				"unlocked":    false,
			}
			if ua, ok := unlockedAt[a.ID]; ok {
				entry["unlocked"] = true
				entry["unlocked_at"] = ua.UnlockedAt
			}
			response = append(response, entry)
		}
		return c.JSON(response)
	})

	secured.Get("/challenges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		active, err := challenges.ActiveWeek(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load challenges"})
		}
		return c.JSON(active)
	})

	secured.Get("/positions", func(c *fiber.Ctx) error {
		var icons []models.PositionIcon
		if err := gamification.DB.Find(&icons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load icons"})
		}
		iconByTag := make(map[string]string, len(icons))
		for _, icon := range icons {
			iconByTag[icon.Position] = icon.IconURL
		}

		response := make([]fiber.Map, 0, len(models.PositionCatalog))
		for tag, label := range models.PositionCatalog {
			response = append(response, fiber.Map{
				"tag":      tag,
				"label":    label,
				"icon_url": iconByTag[tag],
			})
		}
		return c.JSON(response)
	})
}
