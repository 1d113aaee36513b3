// handlers/event_routes.go
package handlers

import (
	"errors"

	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, eventService *services.EventService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/events", func(c *fiber.Ctx) error {
		events, err := eventService.List(middleware.TenantID(c), c.QueryBool("past", false))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list events",
				"cause": err.Error(),
			})
		}
		return c.JSON(events)
	})

	secured.Get("/events/:eventId", func(c *fiber.Ctx) error {
		event, err := eventService.Get(middleware.TenantID(c), c.Params("eventId"))
		if err != nil {
			return notFoundOrError(c, err, "event not found")
		}
		return c.JSON(event)
	})

	secured.Get("/events/:eventId/checkin-info", func(c *fiber.Ctx) error {
		info, err := eventService.CheckInInfo(middleware.TenantID(c), c.Params("eventId"))
		if err != nil {
			return notFoundOrError(c, err, "event not found")
		}
		return c.JSON(info)
	})

	secured.Post("/events/:eventId/rsvp", func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status" validate:"required,oneof=going maybe declined"`
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
		rsvp, err := eventService.RSVP(middleware.TenantID(c), c.Params("eventId"), middleware.UserID(c), req.Status)
		if err != nil {
			return notFoundOrError(c, err, "event not found")
		}
		return c.JSON(rsvp)
	})

	// QR check-in serves members and guests alike: a signed-in member
	// earns the event's points, a guest is recorded by name only.
	optional := app.Group("/api", middleware.OptionalUserContext(secret))

	optional.Post("/events/:eventId/qr-checkin", func(c *fiber.Ctx) error {
		var req struct {
			GuestName string `json:"guestName" validate:"max=200"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON",
					"cause": err.Error(),
				})
			}
		}

		var userID, guestName *string
		if id, ok := c.Locals("user_id").(string); ok && id != "" && req.GuestName == "" {
			userID = &id
		}
		if req.GuestName != "" {
			guestName = &req.GuestName
		}

		checkIn, err := eventService.CheckIn(middleware.TenantID(c), c.Params("eventId"), userID, guestName)
		if err != nil {
			if errors.Is(err, services.ErrAlreadyCheckedIn) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "already checked in to this event",
				})
			}
			return notFoundOrError(c, err, "event not found")
		}
		return c.Status(fiber.StatusCreated).JSON(checkIn)
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Post("/events", func(c *fiber.Ctx) error {
		var req services.EventInput
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
		event, err := eventService.Create(middleware.TenantID(c), middleware.UserID(c), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create event",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(event)
	})

	admin.Put("/events/:eventId", func(c *fiber.Ctx) error {
		var req services.EventInput
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
		event, err := eventService.Update(middleware.TenantID(c), c.Params("eventId"), req)
		if err != nil {
			return notFoundOrError(c, err, "event not found")
		}
		return c.JSON(event)
	})

	admin.Delete("/events/:eventId", func(c *fiber.Ctx) error {
		if err := eventService.Delete(middleware.TenantID(c), c.Params("eventId")); err != nil {
			return notFoundOrError(c, err, "event not found")
		}
		return c.JSON(fiber.Map{"message": "event deleted"})
	})
}
