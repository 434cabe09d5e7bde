package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EnsureGameID rejects requests whose :gameId is not a UUID and stores the
// normalized id in locals as "gameID".
func EnsureGameID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("gameId")
		if raw == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID must be a UUID",
			})
		}

		c.Locals("gameID", id.String())
		return c.Next()
	}
}
