package sessionController

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

// GetSessions lists all sessions, newest school year first
func GetSessions(c *fiber.Ctx) error {
	var sessions []models.Session
	if err := database.Database.Db.Order("name desc").Find(&sessions).Error; err != nil {
		log.Printf("Error fetching sessions: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to fetch sessions!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully.", fiber.Map{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// GetSession fetches a single session
func GetSession(c *fiber.Ctx) error {
	var session models.Session
	if err := database.Database.Db.Where("id = ?", c.Params("id")).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch session!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched successfully.", session)
}

// CreateSession creates a session; names are unique
func CreateSession(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("name = ?", reqData.Name).First(&models.Session{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A session with this name already exists!", nil)
	}

	session := models.Session{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := db.Create(&session).Error; err != nil {
		log.Printf("Error creating session: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to create session!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session created successfully.", session)
}

// UpdateSession renames a session; the new name must not collide with another
func UpdateSession(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTaxonomy").(*taxonomyValidator.TaxonomyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var session models.Session
	if err := db.Where("id = ?", c.Params("id")).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch session!", err)
	}

	if err := db.Where("name = ? AND id <> ?", reqData.Name, session.ID).First(&models.Session{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A session with this name already exists!", nil)
	}

	session.Name = reqData.Name
	session.Description = reqData.Description

	if err := db.Save(&session).Error; err != nil {
		log.Printf("Error updating session: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to update session!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session updated successfully.", session)
}

// DeleteSession removes a session unless courses still reference it
func DeleteSession(c *fiber.Ctx) error {
	db := database.Database.Db

	var session models.Session
	if err := db.Where("id = ?", c.Params("id")).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch session!", err)
	}

	dependents, err := models.FindDependentCourses(db, models.TaxonomyColumn(models.ResourceSession), session.ID)
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to check dependent courses!", err)
	}

	if len(dependents) > 0 {
		message := fmt.Sprintf("Cannot delete this session: %d courses are still associated with it!", len(dependents))
		return middleware.JsonResponse(c, fiber.StatusConflict, false, message, fiber.Map{
			"dependentCourses": dependents,
			"count":            len(dependents),
		})
	}

	if err := db.Delete(&session).Error; err != nil {
		log.Printf("Error deleting session: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to delete session!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session deleted successfully.", fiber.Map{})
}
