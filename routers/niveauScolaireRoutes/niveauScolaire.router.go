package niveauScolaireRoutes

import (
	niveauScolaireController "atomixlab/controllers/niveauscolaire"
	"atomixlab/middleware"
	"atomixlab/models"
	taxonomyValidator "atomixlab/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

func SetupNiveauScolaireRoutes(app *fiber.App) {
	niveauGroup := app.Group("/api/niveaux-scolaires")

	// Public reads
	niveauGroup.Get("/", niveauScolaireController.GetNiveauxScolaires)
	niveauGroup.Get("/:id", niveauScolaireController.GetNiveauScolaire)

	// Admin writes
	niveauGroup.Post("/", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), niveauScolaireController.CreateNiveauScolaire)
	niveauGroup.Put("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), taxonomyValidator.TaxonomyBody(), niveauScolaireController.UpdateNiveauScolaire)
	niveauGroup.Delete("/:id", middleware.Protect, middleware.RestrictTo(models.RoleAdmin), niveauScolaireController.DeleteNiveauScolaire)
}
