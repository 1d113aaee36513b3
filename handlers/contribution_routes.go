// handlers/contribution_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupContributionRoutes(app *fiber.App, contributionService *services.ContributionService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/contributions/user/:userId", func(c *fiber.Ctx) error {
		tenantID := middleware.TenantID(c)
		userID := c.Params("userId")

		contributions, err := contributionService.ListForUser(tenantID, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list contributions",
				"cause": err.Error(),
			})
		}
		total, err := contributionService.TotalForUser(tenantID, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute contribution total",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"contributions": contributions,
			"total":         total,
		})
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Post("/contributions", func(c *fiber.Ctx) error {
		var req services.ContributionInput
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
		contribution, err := contributionService.Record(middleware.TenantID(c), middleware.UserID(c), req)
		if err != nil {
			return notFoundOrError(c, err, "member not found")
		}
		return c.Status(fiber.StatusCreated).JSON(contribution)
	})
}
