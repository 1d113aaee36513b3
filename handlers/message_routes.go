// handlers/message_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupMessageRoutes(app *fiber.App, messageService *services.MessageService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Post("/messages", func(c *fiber.Ctx) error {
		var req struct {
			RecipientID string `json:"recipient_id" validate:"required,uuid"`
			Body        string `json:"body" validate:"required,max=5000"`
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
		msg, err := messageService.Send(middleware.TenantID(c), middleware.UserID(c), req.RecipientID, req.Body)
		if err != nil {
			return notFoundOrError(c, err, "recipient not found")
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	})

	secured.Get("/messages/inbox", func(c *fiber.Ctx) error {
		msgs, err := messageService.Inbox(middleware.TenantID(c), middleware.UserID(c), c.QueryInt("limit", 50))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load inbox",
				"cause": err.Error(),
			})
		}
		return c.JSON(msgs)
	})

	secured.Get("/messages/thread/:peerId", func(c *fiber.Ctx) error {
		msgs, err := messageService.Thread(middleware.TenantID(c), middleware.UserID(c), c.Params("peerId"), c.QueryInt("limit", 100))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load thread",
				"cause": err.Error(),
			})
		}
		return c.JSON(msgs)
	})

	secured.Post("/messages/thread/:peerId/read", func(c *fiber.Ctx) error {
		if err := messageService.MarkRead(middleware.TenantID(c), middleware.UserID(c), c.Params("peerId")); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark thread read",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "thread marked read"})
	})
}
