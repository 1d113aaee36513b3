// handlers/task_routes.go
package handlers

import (
	"dzemat-platform/middleware"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService, secret []byte) {
	secured := app.Group("/api", middleware.UserContextMiddleware(secret))

	secured.Get("/tasks", func(c *fiber.Ctx) error {
		tasks, err := taskService.List(middleware.TenantID(c), c.Query("status"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list tasks",
				"cause": err.Error(),
			})
		}
		return c.JSON(tasks)
	})

	secured.Get("/tasks/:id", func(c *fiber.Ctx) error {
		task, err := taskService.Get(middleware.TenantID(c), c.Params("id"))
		if err != nil {
			return notFoundOrError(c, err, "task not found")
		}
		return c.JSON(task)
	})

	secured.Post("/tasks/:id/submit", func(c *fiber.Ctx) error {
		task, err := taskService.Submit(middleware.TenantID(c), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "submit failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(task)
	})

	secured.Get("/work-groups", func(c *fiber.Ctx) error {
		groups, err := taskService.ListWorkGroups(middleware.TenantID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list work groups",
				"cause": err.Error(),
			})
		}
		return c.JSON(groups)
	})

	secured.Post("/work-groups/:id/join", func(c *fiber.Ctx) error {
		if err := taskService.JoinWorkGroup(middleware.TenantID(c), c.Params("id"), middleware.UserID(c)); err != nil {
			return notFoundOrError(c, err, "work group not found")
		}
		return c.JSON(fiber.Map{"message": "joined work group"})
	})

	admin := app.Group("/api", middleware.UserContextMiddleware(secret), middleware.AdminOnly())

	admin.Post("/tasks", func(c *fiber.Ctx) error {
		var req services.TaskInput
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
		task, err := taskService.Create(middleware.TenantID(c), req)
		if err != nil {
			return notFoundOrError(c, err, "work group not found")
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	admin.Post("/tasks/:id/approve", func(c *fiber.Ctx) error {
		task, err := taskService.Approve(middleware.TenantID(c), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return notFoundOrError(c, err, "task not found")
		}
		return c.JSON(task)
	})

	admin.Post("/tasks/:id/reject", func(c *fiber.Ctx) error {
		task, err := taskService.Reject(middleware.TenantID(c), c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "reject failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(task)
	})

	admin.Post("/work-groups", func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name" validate:"required,max=100"`
			Description string `json:"description" validate:"max=1000"`
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
		group, err := taskService.CreateWorkGroup(middleware.TenantID(c), req.Name, req.Description)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create work group",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(group)
	})
}
