package courseRoutes

import (
	courseController "atomixlab/controllers/course"
	"atomixlab/middleware"
	"atomixlab/models"
	courseValidator "atomixlab/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	// Legacy sessions list, registered before /:id to avoid capture
	courseGroup.Get("/sessions/list", courseController.GetSessionsList)

	// Public reads
	courseGroup.Get("/", courseController.GetCourses)
	courseGroup.Get("/:id", courseController.GetCourse)

	// Admin writes
	courseGroup.Post("/", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), courseValidator.CreateCourse(), courseController.CreateCourse)
	courseGroup.Put("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), courseValidator.UpdateCourse(), courseController.UpdateCourse)
	courseGroup.Delete("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), courseController.DeleteCourse)
}
