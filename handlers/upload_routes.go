// handlers/upload_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App, uploadService *services.UploadService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Post("/uploads/:purpose", func(c *fiber.Ctx) error {
		purpose := c.Params("purpose")
		if !services.ValidPurpose(purpose) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown upload purpose",
			})
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing file field",
				"cause": err.Error(),
			})
		}

		path, err := uploadService.Normalize(fileHeader, middleware.TenantID(c), purpose)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "could not process image",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": path})
	})
}
