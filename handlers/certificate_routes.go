// handlers/certificate_routes.go
package handlers

import (
	"context"
	"errors"
	"time"

	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App, certService *services.CertificateService, pushService *services.PushService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/certificates/user", func(c *fiber.Ctx) error {
		certs, err := certService.ListForUser(middleware.TenantID(c), middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list certificates",
				"cause": err.Error(),
			})
		}
		return c.JSON(certs)
	})

	secured.Patch("/certificates/:id/viewed", func(c *fiber.Ctx) error {
		cert, err := certService.MarkViewed(middleware.TenantID(c), c.Params("id"), middleware.UserID(c))
		if err != nil {
			if errors.Is(err, services.ErrNotViewable) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "certificate belongs to another member",
				})
			}
			return notFoundOrError(c, err, "certificate not found")
		}
		return c.JSON(cert)
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Get("/certificate-templates", func(c *fiber.Ctx) error {
		templates, err := certService.ListTemplates(middleware.TenantID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list templates",
				"cause": err.Error(),
			})
		}
		return c.JSON(templates)
	})

	admin.Post("/certificate-templates", func(c *fiber.Ctx) error {
		var req services.TemplateInput
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
		tpl, err := certService.CreateTemplate(middleware.TenantID(c), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create template",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(tpl)
	})

	admin.Put("/certificate-templates/:id", func(c *fiber.Ctx) error {
		var req services.TemplateInput
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
		tpl, err := certService.UpdateTemplate(middleware.TenantID(c), c.Params("id"), req)
		if err != nil {
			return notFoundOrError(c, err, "template not found")
		}
		return c.JSON(tpl)
	})

	admin.Delete("/certificate-templates/:id", func(c *fiber.Ctx) error {
		if err := certService.DeleteTemplate(middleware.TenantID(c), c.Params("id")); err != nil {
			return notFoundOrError(c, err, "template not found")
		}
		return c.JSON(fiber.Map{"message": "template deleted"})
	})

	admin.Post("/certificates", func(c *fiber.Ctx) error {
		var req services.IssueInput
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

		tenantID := middleware.TenantID(c)
		cert, err := certService.Issue(tenantID, middleware.UserID(c), req)
		if err != nil {
			return notFoundOrError(c, err, "template or member not found")
		}

		// Best effort: the certificate is issued whether or not the
		// push lands. Detached context — fiber recycles c after return.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			_, _, _ = pushService.NotifyTenant(ctx, tenantID,
				"New certificate awarded 🎓",
				"A certificate was issued to "+services.Initials(cert.RecipientName),
				map[string]interface{}{"type": "certificate", "certificate_id": cert.ID})
		}()

		return c.Status(fiber.StatusCreated).JSON(cert)
	})
}
