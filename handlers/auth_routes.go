// handlers/auth_routes.go
package handlers

import (
	"errors"

	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	app.Post("/api/auth/register", func(c *fiber.Ctx) error {
		var req services.RegisterInput
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

		user, err := authService.Register(middleware.TenantID(c), req)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "registration failed",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
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

		token, user, err := authService.Login(middleware.TenantID(c), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid email or password",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "login failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"token": token, "user": user})
	})
}

func SetupProfileRoutes(app *fiber.App, authService *services.AuthService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/profile", func(c *fiber.Ctx) error {
		user, err := authService.GetUser(middleware.TenantID(c), middleware.UserID(c))
		if err != nil {
			return notFoundOrError(c, err, "member not found")
		}
		return c.JSON(user)
	})

	secured.Patch("/profile", func(c *fiber.Ctx) error {
		var req services.ProfileUpdate
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
		user, err := authService.UpdateProfile(middleware.TenantID(c), middleware.UserID(c), req)
		if err != nil {
			return notFoundOrError(c, err, "member not found")
		}
		return c.JSON(user)
	})

	secured.Post("/profile/push-token", func(c *fiber.Ctx) error {
		var req struct {
			PushToken *string `json:"push_token"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := authService.SetPushToken(middleware.TenantID(c), middleware.UserID(c), req.PushToken); err != nil {
			return notFoundOrError(c, err, "member not found")
		}
		return c.JSON(fiber.Map{"message": "push token updated"})
	})

	admin := app.Group("/api/members", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Get("/", func(c *fiber.Ctx) error {
		users, err := authService.ListMembers(middleware.TenantID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list members",
				"cause": err.Error(),
			})
		}
		return c.JSON(users)
	})
}

// notFoundOrError maps gorm's not-found onto 404 and everything else
// onto 500. Shared by all handler files.
func notFoundOrError(c *fiber.Ctx, err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMsg})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"cause": err.Error(),
	})
}
