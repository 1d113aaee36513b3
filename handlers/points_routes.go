// handlers/points_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupPointsRoutes(app *fiber.App, pointsService *services.PointsService, badgeService *services.BadgeService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.List(middleware.TenantID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	secured.Get("/user-badges/:userId", func(c *fiber.Ctx) error {
		grants, err := badgeService.UserBadges(middleware.TenantID(c), c.Params("userId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list user badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(grants)
	})

	secured.Get("/activity-logs/user/:userId", func(c *fiber.Ctx) error {
		tenantID := middleware.TenantID(c)
		userID := c.Params("userId")

		entries, err := pointsService.UserActivity(tenantID, userID, c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load activity",
				"cause": err.Error(),
			})
		}
		total, err := pointsService.TotalPoints(tenantID, userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute total",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"entries":      entries,
			"total_points": total,
		})
	})

	secured.Get("/point-settings", func(c *fiber.Ctx) error {
		settings, err := pointsService.EnsureSettings(middleware.TenantID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load point settings",
				"cause": err.Error(),
			})
		}
		return c.JSON(settings)
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Put("/point-settings/:id", func(c *fiber.Ctx) error {
		var req services.PointSettingsInput
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
		settings, err := pointsService.UpdateSettings(middleware.TenantID(c), c.Params("id"), req)
		if err != nil {
			return notFoundOrError(c, err, "point settings not found")
		}
		return c.JSON(settings)
	})

	admin.Post("/badges", func(c *fiber.Ctx) error {
		var req services.BadgeInput
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
		badge, err := badgeService.Create(middleware.TenantID(c), req)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create badge",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(badge)
	})

	admin.Put("/badges/:id", func(c *fiber.Ctx) error {
		var req services.BadgeInput
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
		badge, err := badgeService.Update(middleware.TenantID(c), c.Params("id"), req)
		if err != nil {
			return notFoundOrError(c, err, "badge not found")
		}
		return c.JSON(badge)
	})

	admin.Delete("/badges/:id", func(c *fiber.Ctx) error {
		if err := badgeService.Delete(middleware.TenantID(c), c.Params("id")); err != nil {
			return notFoundOrError(c, err, "badge not found")
		}
		return c.JSON(fiber.Map{"message": "badge deleted"})
	})

	admin.Post("/points/bonus", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			Points int64  `json:"points" validate:"required"`
			Reason string `json:"reason" validate:"max=255"`
		}
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
		if err := pointsService.ManualBonus(middleware.TenantID(c), middleware.UserID(c), req.UserID, req.Points, req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "bonus failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "points granted",
			"user_id": req.UserID,
			"points":  req.Points,
		})
	})
}
