package controllers

import (
	"github.com/gofiber/fiber/v2"

	"echo-me/dto"
)

// Health reports liveness and which store backs the process.
func Health(store string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: store})
	}
}
