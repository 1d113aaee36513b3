// handlers/feed_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFeedRoutes(app *fiber.App, feedService *services.FeedService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/activity-feed", func(c *fiber.Ctx) error {
		items, err := feedService.Aggregate(c.Context(), middleware.TenantID(c), c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build activity feed",
				"cause": err.Error(),
			})
		}
		return c.JSON(items)
	})
}
