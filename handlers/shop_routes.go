// handlers/shop_routes.go
package handlers

import (
	"errors"

	"dzemat-platform/middleware"
	"dzemat-platform/models"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, shopService *services.ShopService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/shop/listings", func(c *fiber.Ctx) error {
		listings, err := shopService.List(middleware.TenantID(c), models.ListingStatus(c.Query("status", string(models.ListingActive))))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list shop listings",
				"cause": err.Error(),
			})
		}
		return c.JSON(listings)
	})

	secured.Get("/shop/listings/:id", func(c *fiber.Ctx) error {
		listing, err := shopService.Get(middleware.TenantID(c), c.Params("id"))
		if err != nil {
			return notFoundOrError(c, err, "listing not found")
		}
		return c.JSON(listing)
	})

	secured.Post("/shop/listings", func(c *fiber.Ctx) error {
		var req services.ListingInput
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
		listing, err := shopService.Create(middleware.TenantID(c), middleware.UserID(c), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create listing",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(listing)
	})

	secured.Patch("/shop/listings/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status string `json:"status" validate:"required,oneof=active sold removed"`
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

		isAdmin, _ := c.Locals("is_admin").(bool)
		listing, err := shopService.UpdateStatus(middleware.TenantID(c), c.Params("id"),
			middleware.UserID(c), isAdmin, models.ListingStatus(req.Status))
		if err != nil {
			if errors.Is(err, services.ErrNotSeller) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "listing belongs to another member",
				})
			}
			return notFoundOrError(c, err, "listing not found")
		}
		return c.JSON(listing)
	})
}
