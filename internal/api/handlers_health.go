package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/worktrace/internal/db"
)

const healthTokenHeader = "X-Health-Token"

func (handler *Handler) Health(c *fiber.Ctx) error {
	if handler.healthToken != "" {
		provided := c.Get(healthTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(handler.healthToken)) != 1 {
			return apiError(c, fiber.StatusForbidden, "forbidden")
		}
	}
	if err := db.Ping(handler.db); err != nil {
		handler.logger.Error("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
