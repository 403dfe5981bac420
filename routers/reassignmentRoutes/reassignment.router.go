package reassignmentRoutes

import (
	reassignmentController "atomixlab/controllers/reassignment"
	"atomixlab/middleware"
	"atomixlab/models"
	taxonomyValidator "atomixlab/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

func SetupReassignmentRoutes(app *fiber.App) {
	reassignGroup := app.Group("/api/reassignment", middleware.Protect, middleware.RestrictTo(models.RoleAdmin))

	reassignGroup.Get("/:resourceType/:id/dependencies", reassignmentController.GetDependentCourses)
	reassignGroup.Post("/:resourceType/:oldId/reassign", taxonomyValidator.Reassign(), reassignmentController.ReassignAndDelete)
}
