package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *Handler) {
	health := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"service": "market-snapshot",
		})
	}
	app.Get("/", health)
	app.Get("/health", health)
	app.Get("/market_snapshot", h.MarketSnapshot)
	v1 := app.Group("/api/v1")
	v1.Get("/market_snapshot", h.MarketSnapshot)
}
