package sessionController_test

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
	sessionRoutes "atomixlab/routers/sessionRoutes"

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
	sessionRoutes.SetupSessionRoutes(app)
	return app
}

func adminToken(t *testing.T) string {
	t.Helper()
	admin := models.User{Email: uuid.NewString() + "@test.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, database.Database.Db.Create(&admin).Error)
	token, err := middleware.GenerateJWT(admin.ID, admin.Role)
	require.NoError(t, err)
	return token
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

func TestCreateSessionDuplicateName(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)

	status, _ := doRequest(t, app, "POST", "/api/sessions", token, fiber.Map{"name": "2024-2025"})
	require.Equal(t, fiber.StatusCreated, status)

	status, env := doRequest(t, app, "POST", "/api/sessions", token, fiber.Map{"name": "2024-2025"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Success)

	// Only one session with that name exists
	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Session{}).Where("name = ?", "2024-2025").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateSessionRequiresName(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)

	status, env := doRequest(t, app, "POST", "/api/sessions", token, fiber.Map{"description": "no name"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "name")
}

func TestSessionWritesRequireAdmin(t *testing.T) {
	app := setupApp(t)

	status, _ := doRequest(t, app, "POST", "/api/sessions", "", fiber.Map{"name": "2025-2026"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	user := models.User{Email: uuid.NewString() + "@test.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)

	status, _ = doRequest(t, app, "POST", "/api/sessions", token, fiber.Map{"name": "2025-2026"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestUpdateSessionDuplicateName(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)
	db := database.Database.Db

	a := models.Session{Name: "2023-2024"}
	b := models.Session{Name: "2024-2025"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	status, _ := doRequest(t, app, "PUT", "/api/sessions/"+b.ID, token, fiber.Map{"name": "2023-2024"})
	assert.Equal(t, fiber.StatusConflict, status)

	// Renaming to its own name is allowed
	status, _ = doRequest(t, app, "PUT", "/api/sessions/"+b.ID, token, fiber.Map{"name": "2024-2025", "description": "current"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestDeleteSessionWithoutDependents(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)

	session := models.Session{Name: "2020-2021"}
	require.NoError(t, database.Database.Db.Create(&session).Error)

	status, env := doRequest(t, app, "DELETE", "/api/sessions/"+session.ID, token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteSessionBlockedByDependents(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)
	db := database.Database.Db

	session := models.Session{Name: "2021-2022"}
	niveau := models.NiveauScolaire{Name: "Terminale"}
	thematique := models.Thematique{Name: "Cinetique"}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&niveau).Error)
	require.NoError(t, db.Create(&thematique).Error)

	course := models.Course{
		Title:            "Cours bloquant",
		SessionID:        session.ID,
		NiveauScolaireID: niveau.ID,
		ThematiqueID:     thematique.ID,
		Type:             models.CourseTypePhysique,
		URLDownload:      "https://example.com/cours.pdf",
	}
	require.NoError(t, db.Create(&course).Error)

	status, env := doRequest(t, app, "DELETE", "/api/sessions/"+session.ID, token, nil)
	require.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Success)

	var data struct {
		Count            int                      `json:"count"`
		DependentCourses []models.DependentCourse `json:"dependentCourses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Count)
	assert.Equal(t, course.ID, data.DependentCourses[0].ID)
	assert.Equal(t, "Cours bloquant", data.DependentCourses[0].Title)

	// Failure is a no-op: session and course both unchanged
	var kept int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, session.ID, reloaded.SessionID)
}

func TestDeleteSessionNotFound(t *testing.T) {
	app := setupApp(t)
	token := adminToken(t)

	status, _ := doRequest(t, app, "DELETE", "/api/sessions/"+uuid.NewString(), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetSessionsSorted(t *testing.T) {
	app := setupApp(t)
	db := database.Database.Db

	require.NoError(t, db.Create(&models.Session{Name: "2022-2023"}).Error)
	require.NoError(t, db.Create(&models.Session{Name: "2024-2025"}).Error)
	require.NoError(t, db.Create(&models.Session{Name: "2023-2024"}).Error)

	status, env := doRequest(t, app, "GET", "/api/sessions", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Count    int              `json:"count"`
		Sessions []models.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 3, data.Count)
	assert.Equal(t, "2024-2025", data.Sessions[0].Name)
	assert.Equal(t, "2022-2023", data.Sessions[2].Name)
}
