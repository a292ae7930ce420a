package handlers

import (
	"errors"
	"strconv"
	"time"

	"couple-diary-system/middleware"
	"couple-diary-system/services"

	"github.com/gofiber/fiber/v2"
)

// encounterRequest is the wire shape for create/update; the date comes in as
// "2006-01-02" (RFC3339 also accepted).
type encounterRequest struct {
	Date            string  `json:"date"`
	TimeOfDay       *string `json:"time_of_day,omitempty"`
	Position        string  `json:"position"`
	CustomPosition  string  `json:"custom_position,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Rating          *int    `json:"rating,omitempty"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (r *encounterRequest) toInput() (services.EncounterInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return services.EncounterInput{}, err
	}
	return services.EncounterInput{
		Date:            date,
		TimeOfDay:       r.TimeOfDay,
		Position:        r.Position,
		CustomPosition:  r.CustomPosition,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
		Rating:          r.Rating,
	}, nil
}

func encounterErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEncounterNotFound), errors.Is(err, services.ErrProposalNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNoAccess), errors.Is(err, services.ErrNotEncounterOwner),
		errors.Is(err, services.ErrNotRecipient):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidRating), errors.Is(err, services.ErrProposalClosed),
		errors.Is(err, services.ErrNotPaired):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func SetupEncounterRoutes(app *fiber.App, auth *services.AuthService, encounters *services.EncounterService) {
	secured := app.Group("/api/encounters", middleware.UserContextMiddleware(auth))

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))

		list, err := encounters.List(userID, limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list encounters"})
		}
		return c.JSON(list)
	})

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req encounterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		input, err := req.toInput()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date", "cause": err.Error()})
		}

		encounter, err := encounters.Create(userID, input)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(encounter)
	})

	secured.Get("/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		encounter, err := encounters.Get(userID, c.Params("id"))
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(encounter)
	})

	secured.Put("/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req encounterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		input, err := req.toInput()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date", "cause": err.Error()})
		}

		encounter, err := encounters.Update(userID, c.Params("id"), input)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(encounter)
	})

	secured.Delete("/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := encounters.Delete(userID, c.Params("id")); err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "encounter deleted"})
	})

	secured.Get("/:id/ratings", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		ratings, err := encounters.Ratings(userID, c.Params("id"))
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(ratings)
	})

	secured.Post("/:id/ratings", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		rating, err := encounters.Rate(userID, c.Params("id"), req.Rating, req.Comment)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(rating)
	})

	proposals := app.Group("/api/proposals", middleware.UserContextMiddleware(auth))

	proposals.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := encounters.Proposals(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list proposals"})
		}
		return c.JSON(list)
	})

	proposals.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Date     string `json:"date"`
			Position string `json:"position"`
			Notes    string `json:"notes"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		date, err := parseDate(req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date", "cause": err.Error()})
		}

		proposal, err := encounters.Propose(userID, date, req.Position, req.Notes)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(proposal)
	})

	proposals.Post("/:id/accept", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		proposal, err := encounters.Respond(userID, c.Params("id"), true)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(proposal)
	})

	proposals.Post("/:id/decline", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		proposal, err := encounters.Respond(userID, c.Params("id"), false)
		if err != nil {
			return c.Status(encounterErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(proposal)
	})
}
