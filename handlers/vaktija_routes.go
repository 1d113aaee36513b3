// handlers/vaktija_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

// Vaktija lookups are public: the prayer schedule is published for the
// whole community, signed in or not. Only the upsert is admin-gated.
func SetupVaktijaRoutes(app *fiber.App, vaktijaService *services.VaktijaService, secret []byte) {
	app.Get("/api/vaktija/today", func(c *fiber.Ctx) error {
		v, err := vaktijaService.Today(middleware.TenantID(c))
		if err != nil {
			return notFoundOrError(c, err, "no schedule published for today")
		}
		return c.JSON(v)
	})

	app.Get("/api/vaktija/:date", func(c *fiber.Ctx) error {
		v, err := vaktijaService.ForDate(middleware.TenantID(c), c.Params("date"))
		if err != nil {
			return notFoundOrError(c, err, "no schedule published for that date")
		}
		return c.JSON(v)
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Put("/vaktija", func(c *fiber.Ctx) error {
		var req services.VaktijaInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if msgs := utils.ValidateStruct(req); msgs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": msgs,
			})
		}
		v, err := vaktijaService.Upsert(middleware.TenantID(c), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save schedule",
				"cause": err.Error(),
			})
		}
		return c.JSON(v)
	})
}
