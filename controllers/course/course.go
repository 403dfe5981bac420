package courseController

import (
	"atomixlab/database"
	"atomixlab/middleware"
	"atomixlab/models"
	"atomixlab/utils"
	courseValidator "atomixlab/validators/course"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// withAssociations preloads the resolved taxonomy entities and the ordered
// change history onto course queries
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Session").
		Preload("NiveauScolaire").
		Preload("Thematique").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}

// GetCourses lists courses, newest first, with optional taxonomy/type filters
// and a case-insensitive title search
func GetCourses(c *fiber.Ctx) error {
	db := withAssociations(database.Database.Db.Model(&models.Course{}))

	if session := c.Query("session"); session != "" {
		db = db.Where("session_id = ?", session)
	}
	if niveau := c.Query("niveauScolaire"); niveau != "" {
		db = db.Where("niveau_scolaire_id = ?", niveau)
	}
	if thematique := c.Query("thematique"); thematique != "" {
		db = db.Where("thematique_id = ?", thematique)
	}
	if courseType := c.Query("type"); courseType != "" {
		db = db.Where("type = ?", courseType)
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("lower(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var courses []models.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to fetch courses!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"count":   len(courses),
		"courses": courses,
	})
}

// GetCourse fetches a single course with resolved references
func GetCourse(c *fiber.Ctx) error {
	var course models.Course
	err := withAssociations(database.Database.Db).Where("id = ?", c.Params("id")).First(&course).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}

// CreateCourse creates a course with its initial creation history record
func CreateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// A course cannot be created around a dangling reference
	if message := checkReferences(db, reqData.Session, reqData.NiveauScolaire, reqData.Thematique); message != "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, message, nil)
	}

	course := models.Course{
		Title:            reqData.Title,
		SessionID:        reqData.Session,
		NiveauScolaireID: reqData.NiveauScolaire,
		ThematiqueID:     reqData.Thematique,
		Type:             reqData.Type,
		Description:      reqData.Description,
		URLDownload:      reqData.URLDownload,
		CreationDate:     utils.FormatCreationDate(time.Now()),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		record := models.CourseUpdate{
			CourseID:    course.ID,
			Type:        models.UpdateTypeCreation,
			UserID:      user.ID,
			WhatUpdated: "title",
			From:        models.HistoryValue(nil),
			To:          models.HistoryValue(course.Title),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to create course!", err)
	}

	var created models.Course
	if err := withAssociations(db).Where("id = ?", course.ID).First(&created).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch created course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", created)
}

// UpdateCourse applies a partial patch and appends exactly one modification
// record describing it
func UpdateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ?", c.Params("id")).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch course!", err)
	}

	patch, patchedFields := buildPatch(reqData)

	// Patched references must resolve before anything is written
	session, niveau, thematique := course.SessionID, course.NiveauScolaireID, course.ThematiqueID
	if reqData.Session != nil {
		session = *reqData.Session
	}
	if reqData.NiveauScolaire != nil {
		niveau = *reqData.NiveauScolaire
	}
	if reqData.Thematique != nil {
		thematique = *reqData.Thematique
	}
	if message := checkReferences(db, session, niveau, thematique); message != "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, message, nil)
	}

	oldTitle := course.Title
	newTitle := oldTitle
	if reqData.Title != nil {
		newTitle = *reqData.Title
	}

	record := models.CourseUpdate{
		CourseID:    course.ID,
		Type:        models.UpdateTypeModification,
		UserID:      user.ID,
		WhatUpdated: strings.Join(patchedFields, ", "),
		From:        models.HistoryValue(oldTitle),
		To:          models.HistoryValue(newTitle),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).Updates(patch).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		log.Printf("Error updating course: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to update course!", err)
	}

	var updated models.Course
	if err := withAssociations(db).Where("id = ?", course.ID).First(&updated).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch updated course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", updated)
}

// DeleteCourse removes a course and its history
func DeleteCourse(c *fiber.Ctx) error {
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ?", c.Params("id")).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to fetch course!", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseUpdate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		log.Printf("Error deleting course: %v", err)
		return middleware.ServerErrorResponse(c, "Failed to delete course!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", fiber.Map{})
}

// GetSessionsList returns the sorted distinct session IDs currently in use.
// Legacy path kept for the SPA.
func GetSessionsList(c *fiber.Ctx) error {
	var sessions []string
	err := database.Database.Db.Model(&models.Course{}).Distinct("session_id").Pluck("session_id", &sessions).Error
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch sessions!", err)
	}

	sort.Strings(sessions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully.", sessions)
}

// buildPatch turns the validated patch into a column map plus the label parts
// for the history record, in a fixed field order
func buildPatch(r *courseValidator.UpdateCourseRequest) (map[string]interface{}, []string) {
	patch := make(map[string]interface{})
	var fields []string

	if r.Title != nil {
		patch["title"] = *r.Title
		fields = append(fields, "title")
	}
	if r.Session != nil {
		patch["session_id"] = *r.Session
		fields = append(fields, "session")
	}
	if r.NiveauScolaire != nil {
		patch["niveau_scolaire_id"] = *r.NiveauScolaire
		fields = append(fields, "niveauScolaire")
	}
	if r.Thematique != nil {
		patch["thematique_id"] = *r.Thematique
		fields = append(fields, "thematique")
	}
	if r.Type != nil {
		patch["type"] = *r.Type
		fields = append(fields, "type")
	}
	if r.Description != nil {
		patch["description"] = *r.Description
		fields = append(fields, "description")
	}
	if r.URLDownload != nil {
		patch["url_download"] = *r.URLDownload
		fields = append(fields, "urlDownload")
	}

	return patch, fields
}

// checkReferences verifies the three taxonomy references resolve; returns a
// NotFound message for the first missing one, or ""
func checkReferences(db *gorm.DB, sessionID, niveauID, thematiqueID string) string {
	if err := db.Where("id = ?", sessionID).First(&models.Session{}).Error; err != nil {
		return "Session not found!"
	}
	if err := db.Where("id = ?", niveauID).First(&models.NiveauScolaire{}).Error; err != nil {
		return "Niveau scolaire not found!"
	}
	if err := db.Where("id = ?", thematiqueID).First(&models.Thematique{}).Error; err != nil {
		return "Thematique not found!"
	}
	return ""
}
