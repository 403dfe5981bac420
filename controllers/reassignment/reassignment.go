package reassignmentController

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

// GetDependentCourses lists the courses still referencing a taxonomy entry.
// Read-only companion to ReassignAndDelete.
func GetDependentCourses(c *fiber.Ctx) error {
	resourceType := c.Params("resourceType")
	column := models.TaxonomyColumn(resourceType)
	if column == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid resource type!", nil)
	}

	dependents, err := models.FindDependentCourses(database.Database.Db, column, c.Params("id"))
	if err != nil {
		log.Printf("Error fetching dependent courses: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to fetch dependent courses!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dependent courses fetched successfully.", fiber.Map{
		"count":            len(dependents),
		"dependentCourses": dependents,
	})
}

// ReassignAndDelete migrates every course referencing the old taxonomy entry
// to the new one, appends a change record to each migrated course, then
// deletes the old entry. Validation happens entirely before any write; the
// writes run in one transaction.
func ReassignAndDelete(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReassign").(*taxonomyValidator.ReassignRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	resourceType := c.Params("resourceType")
	oldID := c.Params("oldId")
	newID := reqData.NewID

	column := models.TaxonomyColumn(resourceType)
	if column == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid resource type!", nil)
	}

	if oldID == newID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot reassign to the same value!", nil)
	}

	db := database.Database.Db

	// The target must resolve before any course is touched
	newResource, err := resolveResource(db, resourceType, newID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "New resource not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to resolve new resource!", err)
	}

	oldResource, err := resolveResource(db, resourceType, oldID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Old resource not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to resolve old resource!", err)
	}

	var reassignedCount int
	err = db.Transaction(func(tx *gorm.DB) error {
		var courses []models.Course
		if err := tx.Where(column+" = ?", oldID).Find(&courses).Error; err != nil {
			return err
		}
		reassignedCount = len(courses)

		if len(courses) > 0 {
			if err := tx.Model(&models.Course{}).Where(column+" = ?", oldID).Update(column, newID).Error; err != nil {
				return err
			}

			// One history entry per migrated course, same triggering event
			records := make([]models.CourseUpdate, 0, len(courses))
			for _, course := range courses {
				records = append(records, models.CourseUpdate{
					CourseID:    course.ID,
					Type:        models.UpdateTypeModification,
					UserID:      user.ID,
					WhatUpdated: resourceType,
					From:        models.HistoryValue(oldResource.Name),
					To:          models.HistoryValue(newResource.Name),
				})
			}
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}

		// All references are gone; the deletion guard no longer applies
		return deleteResource(tx, resourceType, oldID)
	})
	if err != nil {
		log.Printf("Error during reassignment: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to reassign courses!", err)
	}

	message := fmt.Sprintf("%d courses reassigned and resource deleted.", reassignedCount)
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"reassignedCount": reassignedCount,
		"deletedResource": fiber.Map{
			"id":   oldResource.ID,
			"name": oldResource.Name,
		},
	})
}

// resource is the id/name summary common to the three taxonomy kinds
type resource struct {
	ID   string
	Name string
}

func resolveResource(db *gorm.DB, resourceType, id string) (resource, error) {
	switch resourceType {
	case models.ResourceSession:
		var s models.Session
		if err := db.Where("id = ?", id).First(&s).Error; err != nil {
			return resource{}, err
		}
		return resource{ID: s.ID, Name: s.Name}, nil
	case models.ResourceNiveauScolaire:
		var n models.NiveauScolaire
		if err := db.Where("id = ?", id).First(&n).Error; err != nil {
			return resource{}, err
		}
		return resource{ID: n.ID, Name: n.Name}, nil
	case models.ResourceThematique:
		var t models.Thematique
		if err := db.Where("id = ?", id).First(&t).Error; err != nil {
			return resource{}, err
		}
		return resource{ID: t.ID, Name: t.Name}, nil
	}
	return resource{}, gorm.ErrRecordNotFound
}

func deleteResource(tx *gorm.DB, resourceType, id string) error {
	switch resourceType {
	case models.ResourceSession:
		return tx.Where("id = ?", id).Delete(&models.Session{}).Error
	case models.ResourceNiveauScolaire:
		return tx.Where("id = ?", id).Delete(&models.NiveauScolaire{}).Error
	case models.ResourceThematique:
		return tx.Where("id = ?", id).Delete(&models.Thematique{}).Error
	}
	return gorm.ErrRecordNotFound
}
