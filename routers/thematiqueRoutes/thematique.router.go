package thematiqueRoutes

import (
	thematiqueController "atomixlab/controllers/thematique"
	"atomixlab/middleware"
	"atomixlab/models"
	taxonomyValidator "atomixlab/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

func SetupThematiqueRoutes(app *fiber.App) {
	thematiqueGroup := app.Group("/api/thematiques")

	// Public reads
	thematiqueGroup.Get("/", thematiqueController.GetThematiques)
	thematiqueGroup.Get("/:id", thematiqueController.GetThematique)

	// Admin writes
	thematiqueGroup.Post("/", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), thematiqueController.CreateThematique)
	thematiqueGroup.Put("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), thematiqueController.UpdateThematique)
	thematiqueGroup.Delete("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), thematiqueController.DeleteThematique)
}
