// handlers/announcement_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupAnnouncementRoutes(app *fiber.App, announcementService *services.AnnouncementService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/announcements", func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals("is_admin").(bool)
		anns, err := announcementService.List(middleware.TenantID(c), !isAdmin)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list announcements",
				"cause": err.Error(),
			})
		}
		return c.JSON(anns)
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Post("/announcements", func(c *fiber.Ctx) error {
		var req services.AnnouncementInput
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
		ann, err := announcementService.Create(middleware.TenantID(c), middleware.UserID(c), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create announcement",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(ann)
	})

	admin.Post("/announcements/:id/publish", func(c *fiber.Ctx) error {
		ann, err := announcementService.Publish(middleware.TenantID(c), c.Params("id"))
		if err != nil {
			return notFoundOrError(c, err, "announcement not found")
		}
		return c.JSON(ann)
	})
}
