package niveauScolaireController

import (
	"atomixlab/database"
	"atomixlab/middleware"
	"atomixlab/models"
	taxonomyValidator "atomixlab/validators/taxonomy"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetNiveauxScolaires lists all grade levels
func GetNiveauxScolaires(c *fiber.Ctx) error {
	var niveaux []models.NiveauScolaire
	if err := database.Database.Db.Order("name desc").Find(&niveaux).Error; err != nil {
		log.Printf("Error fetching niveaux scolaires: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to fetch niveaux scolaires!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Niveaux scolaires fetched successfully.", fiber.Map{
		"count":            len(niveaux),
		"niveauxScolaires": niveaux,
	})
}

// GetNiveauScolaire fetches a single grade level
func GetNiveauScolaire(c *fiber.Ctx) error {
	var niveau models.NiveauScolaire
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&niveau).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Niveau scolaire not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch niveau scolaire!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Niveau scolaire fetched successfully.", niveau)
}

// CreateNiveauScolaire creates a grade level; names are unique
func CreateNiveauScolaire(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("name = ?", reqData.Name).First(&models.NiveauScolaire{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A niveau scolaire with this name already exists!", nil)
	}

	niveau := models.NiveauScolaire{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := db.Create(&niveau).Error; err != nil {
		log.Printf("Error creating niveau scolaire: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to create niveau scolaire!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Niveau scolaire created successfully.", niveau)
}

// UpdateNiveauScolaire renames a grade level; the new name must not collide
func UpdateNiveauScolaire(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var niveau models.NiveauScolaire
	if err := db.Where("id = ?", c.Params("id")).First(&niveau).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Niveau scolaire not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch niveau scolaire!", err)
	}

	if err := db.Where("name = ? AND id <> ?", reqData.Name, niveau.ID).First(&models.NiveauScolaire{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A niveau scolaire with this name already exists!", nil)
	}

	niveau.Name = reqData.Name
	niveau.Description = reqData.Description

	if err := db.Save(&niveau).Error; err != nil {
		log.Printf("Error updating niveau scolaire: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to update niveau scolaire!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Niveau scolaire updated successfully.", niveau)
}

// DeleteNiveauScolaire removes a grade level unless courses still reference it
func DeleteNiveauScolaire(c *fiber.Ctx) error {
	db := database.Database.Db

	var niveau models.NiveauScolaire
	if err := db.Where("id = ?", c.Params("id")).First(&niveau).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Niveau scolaire not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch niveau scolaire!", err)
	}

	dependents, err := models.FindDependentCourses(db, models.TaxonomyColumn(models.ResourceNiveauScolaire), niveau.ID)
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to check dependent courses!", err)
	}

	if len(dependents) > 0 {
		message := fmt.Sprintf("Cannot delete this niveau scolaire: %d courses are still associated with it!", len(dependents))
		return middleware.JsonResponse(c, fiber.StatusConflict, false, message, fiber.Map{
			"dependentCourses": dependents,
			"count":            len(dependents),
		})
	}

	if err := db.Delete(&niveau).Error; err != nil {
		log.Printf("Error deleting niveau scolaire: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to delete niveau scolaire!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Niveau scolaire deleted successfully.", fiber.Map{})
}
