package sessionRoutes

import (
	sessionController "atomixlab/controllers/session"
	"atomixlab/middleware"
	"atomixlab/models"
	taxonomyValidator "atomixlab/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

func SetupSessionRoutes(app *fiber.App) {
	sessionGroup := app.Group("/api/sessions")

	// Public reads
	sessionGroup.Get("/", sessionController.GetSessions)
	sessionGroup.Get("/:id", sessionController.GetSession)

	// Admin writes
	sessionGroup.Post("/", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), sessionController.CreateSession)
	sessionGroup.Put("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), sessionController.UpdateSession)
	sessionGroup.Delete("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), sessionController.DeleteSession)
}
