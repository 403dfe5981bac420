package thematiqueController

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

// GetThematiques lists all topics
func GetThematiques(c *fiber.Ctx) error {
	var thematiques []models.Thematique
	if err := database.Database.Db.Order("name desc").Find(&thematiques).Error; err != nil {
		log.Printf("Error fetching thematiques: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to fetch thematiques!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thematiques fetched successfully.", fiber.Map{
		"count":       len(thematiques),
		"thematiques": thematiques,
	})
}

// GetThematique fetches a single topic
func GetThematique(c *fiber.Ctx) error {
	var thematique models.Thematique
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&thematique).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thematique not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch thematique!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thematique fetched successfully.", thematique)
}

// CreateThematique creates a topic; names are unique
func CreateThematique(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("name = ?", reqData.Name).First(&models.Thematique{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A thematique with this name already exists!", nil)
	}

	thematique := models.Thematique{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := db.Create(&thematique).Error; err != nil {
		log.Printf("Error creating thematique: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to create thematique!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thematique created successfully.", thematique)
}

// UpdateThematique renames a topic; the new name must not collide
func UpdateThematique(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var thematique models.Thematique
	if err := db.Where("id = ?", c.Params("id")).First(&thematique).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thematique not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch thematique!", err)
	}

	if err := db.Where("name = ? AND id <> ?", reqData.Name, thematique.ID).First(&models.Thematique{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A thematique with this name already exists!", nil)
	}

	thematique.Name = reqData.Name
	thematique.Description = reqData.Description

	if err := db.Save(&thematique).Error; err != nil {
		log.Printf("Error updating thematique: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to update thematique!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thematique updated successfully.", thematique)
}

// DeleteThematique removes a topic unless courses still reference it
func DeleteThematique(c *fiber.Ctx) error {
	db := database.Database.Db

	var thematique models.Thematique
	if err := db.Where("id = ?", c.Params("id")).First(&thematique).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thematique not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch thematique!", err)
	}

	dependents, err := models.FindDependentCourses(db, models.TaxonomyColumn(models.ResourceThematique), thematique.ID)
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to check dependent courses!", err)
	}

	if len(dependents) > 0 {
		message := fmt.Sprintf("Cannot delete this thematique: %d courses are still associated with it!", len(dependents))
		return middleware.JsonResponse(c, fiber.StatusConflict, false, message, fiber.Map{
			"dependentCourses": dependents,
			"count":            len(dependents),
		})
	}

	if err := db.Delete(&thematique).Error; err != nil {
		log.Printf("Error deleting thematique: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to delete thematique!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thematique deleted successfully.", fiber.Map{})
}
