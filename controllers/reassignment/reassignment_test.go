package reassignmentController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"atomixlab/config"
	"atomixlab/database"
	"atomixlab/middleware"
	"atomixlab/models"
	reassignmentRoutes "atomixlab/routers/reassignmentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Session{}, &models.NiveauScolaire{},
		&models.Thematique{}, &models.Course{}, &models.CourseUpdate{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	reassignmentRoutes.SetupReassignmentRoutes(app)
	return app
}

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@test.com", Password: "hash", Role: role}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func createTaxonomy(t *testing.T) (models.Session, models.NiveauScolaire, models.Thematique) {
	t.Helper()
	session := models.Session{Name: "Session " + uuid.NewString()[:8]}
	niveau := models.NiveauScolaire{Name: "Niveau " + uuid.NewString()[:8]}
	thematique := models.Thematique{Name: "Thematique " + uuid.NewString()[:8]}
	db := database.Database.Db
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&niveau).Error)
	require.NoError(t, db.Create(&thematique).Error)
	return session, niveau, thematique
}

func createCourse(t *testing.T, sessionID, niveauID, thematiqueID string) models.Course {
	t.Helper()
	course := models.Course{
		Title:            "Course " + uuid.NewString()[:8],
		SessionID:        sessionID,
		NiveauScolaireID: niveauID,
		ThematiqueID:     thematiqueID,
		Type:             models.CourseTypeChimie,
		URLDownload:      "https://example.com/cours.pdf",
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func historyOf(t *testing.T, courseID string) []models.CourseUpdate {
	t.Helper()
	var records []models.CourseUpdate
	require.NoError(t, database.Database.Db.Where("course_id = ?", courseID).Order("seq ASC").Find(&records).Error)
	return records
}

func TestReassignRequiresAdmin(t *testing.T) {
	app := setupApp(t)
	_, userToken := createUser(t, models.RoleUser)
	sessionA, _, _ := createTaxonomy(t)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", userToken,
		fiber.Map{"newId": uuid.NewString()})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, env.Success)
}

func TestReassignInvalidResourceType(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)

	status, env := doRequest(t, app, "POST", "/api/reassignment/bogus/"+uuid.NewString()+"/reassign", adminToken,
		fiber.Map{"newId": uuid.NewString()})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid resource type!", env.Message)
}

func TestReassignToSameValueFails(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	sessionA, niveau, thematique := createTaxonomy(t)
	course := createCourse(t, sessionA.ID, niveau.ID, thematique.ID)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", adminToken,
		fiber.Map{"newId": sessionA.ID})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Cannot reassign to the same value!", env.Message)

	// Nothing was mutated
	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Session{}).Where("id = ?", sessionA.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Empty(t, historyOf(t, course.ID))
}

func TestReassignMissingNewResource(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	sessionA, niveau, thematique := createTaxonomy(t)
	course := createCourse(t, sessionA.ID, niveau.ID, thematique.ID)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", adminToken,
		fiber.Map{"newId": uuid.NewString()})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "New resource not found!", env.Message)

	// The dependent course still references the old session
	var reloaded models.Course
	require.NoError(t, database.Database.Db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, sessionA.ID, reloaded.SessionID)
	assert.Empty(t, historyOf(t, course.ID))
}

func TestReassignMissingOldResource(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	sessionB, _, _ := createTaxonomy(t)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+uuid.NewString()+"/reassign", adminToken,
		fiber.Map{"newId": sessionB.ID})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Old resource not found!", env.Message)
}

func TestReassignMissingNewID(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	sessionA, _, _ := createTaxonomy(t)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", adminToken,
		fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "newId")
}

func TestReassignAndDeleteSuccess(t *testing.T) {
	app := setupApp(t)
	admin, adminToken := createUser(t, models.RoleAdmin)
	sessionA, niveau, thematique := createTaxonomy(t)
	sessionB := models.Session{Name: "Session B " + uuid.NewString()[:8]}
	require.NoError(t, database.Database.Db.Create(&sessionB).Error)

	course1 := createCourse(t, sessionA.ID, niveau.ID, thematique.ID)
	course2 := createCourse(t, sessionA.ID, niveau.ID, thematique.ID)
	untouched := createCourse(t, sessionB.ID, niveau.ID, thematique.ID)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", adminToken,
		fiber.Map{"newId": sessionB.ID})
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, env.Success)

	var data struct {
		ReassignedCount int `json:"reassignedCount"`
		DeletedResource struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"deletedResource"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.ReassignedCount)
	assert.Equal(t, sessionA.ID, data.DeletedResource.ID)
	assert.Equal(t, sessionA.Name, data.DeletedResource.Name)

	db := database.Database.Db

	// No course references the old session anymore
	var stale int64
	require.NoError(t, db.Model(&models.Course{}).Where("session_id = ?", sessionA.ID).Count(&stale).Error)
	assert.EqualValues(t, 0, stale)

	// Every dependent now references the new session and carries exactly one
	// additional change record
	for _, id := range []string{course1.ID, course2.ID} {
		var reloaded models.Course
		require.NoError(t, db.First(&reloaded, "id = ?", id).Error)
		assert.Equal(t, sessionB.ID, reloaded.SessionID)

		records := historyOf(t, id)
		require.Len(t, records, 1)
		assert.Equal(t, models.UpdateTypeModification, records[0].Type)
		assert.Equal(t, admin.ID, records[0].UserID)
		assert.Equal(t, "session", records[0].WhatUpdated)
		assert.JSONEq(t, `"`+sessionA.Name+`"`, string(records[0].From))
		assert.JSONEq(t, `"`+sessionB.Name+`"`, string(records[0].To))
	}

	// The bystander course was not touched
	var bystander models.Course
	require.NoError(t, db.First(&bystander, "id = ?", untouched.ID).Error)
	assert.Equal(t, sessionB.ID, bystander.SessionID)
	assert.Empty(t, historyOf(t, untouched.ID))

	// The old session no longer resolves; the new one still does
	var gone int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", sessionA.ID).Count(&gone).Error)
	assert.EqualValues(t, 0, gone)
	var kept int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", sessionB.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)
}

func TestReassignWithZeroDependents(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	sessionA, _, _ := createTaxonomy(t)
	sessionB := models.Session{Name: "Session B " + uuid.NewString()[:8]}
	require.NoError(t, database.Database.Db.Create(&sessionB).Error)

	status, env := doRequest(t, app, "POST", "/api/reassignment/session/"+sessionA.ID+"/reassign", adminToken,
		fiber.Map{"newId": sessionB.ID})
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		ReassignedCount int `json:"reassignedCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 0, data.ReassignedCount)

	// Degenerates to a pure deletion
	var gone int64
	require.NoError(t, database.Database.Db.Model(&models.Session{}).Where("id = ?", sessionA.ID).Count(&gone).Error)
	assert.EqualValues(t, 0, gone)
}

func TestReassignOtherResourceTypes(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	session, niveauA, thematiqueA := createTaxonomy(t)
	niveauB := models.NiveauScolaire{Name: "Niveau B " + uuid.NewString()[:8]}
	thematiqueB := models.Thematique{Name: "Thematique B " + uuid.NewString()[:8]}
	db := database.Database.Db
	require.NoError(t, db.Create(&niveauB).Error)
	require.NoError(t, db.Create(&thematiqueB).Error)

	course := createCourse(t, session.ID, niveauA.ID, thematiqueA.ID)

	status, _ := doRequest(t, app, "POST", "/api/reassignment/niveauScolaire/"+niveauA.ID+"/reassign", adminToken,
		fiber.Map{"newId": niveauB.ID})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, "POST", "/api/reassignment/thematique/"+thematiqueA.ID+"/reassign", adminToken,
		fiber.Map{"newId": thematiqueB.ID})
	require.Equal(t, fiber.StatusOK, status)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, niveauB.ID, reloaded.NiveauScolaireID)
	assert.Equal(t, thematiqueB.ID, reloaded.ThematiqueID)

	records := historyOf(t, course.ID)
	require.Len(t, records, 2)
	assert.Equal(t, "niveauScolaire", records[0].WhatUpdated)
	assert.Equal(t, "thematique", records[1].WhatUpdated)
}

func TestGetDependentCourses(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUser(t, models.RoleAdmin)
	session, niveau, thematique := createTaxonomy(t)
	course := createCourse(t, session.ID, niveau.ID, thematique.ID)

	status, env := doRequest(t, app, "GET", "/api/reassignment/session/"+session.ID+"/dependencies", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Count            int                      `json:"count"`
		DependentCourses []models.DependentCourse `json:"dependentCourses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Count)
	assert.Equal(t, course.ID, data.DependentCourses[0].ID)
	assert.Equal(t, course.Title, data.DependentCourses[0].Title)
	assert.Equal(t, course.Type, data.DependentCourses[0].Type)

	// Unknown resource type is rejected
	status, _ = doRequest(t, app, "GET", "/api/reassignment/bogus/"+session.ID+"/dependencies", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
