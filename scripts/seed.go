package main

import (
	"atomixlab/config"
	"atomixlab/database"
	"atomixlab/models"
	"atomixlab/utils"
	"encoding/json"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// seedCourse mirrors the SPA fixture shape: taxonomy fields hold names, not IDs
type seedCourse struct {
	Title          string `json:"title"`
	Session        string `json:"session"`
	NiveauScolaire string `json:"niveauScolaire"`
	Thematique     string `json:"thematique"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	URLDownload    string `json:"urlDownload"`
}

func main() {
	config.LoadConfig()
	database.ConnectDb()
	defer database.Close()

	seedFile := os.Getenv("SEED_FILE")
	if seedFile == "" {
		seedFile = "./public/cours.json"
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		log.Fatalf("Failed to open seed file %s: %v", seedFile, err)
	}

	var coursesData []seedCourse
	if err := json.Unmarshal(raw, &coursesData); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	db := database.Database.Db

	log.Println("Deleting existing data...")
	for _, table := range []interface{}{
		&models.CourseUpdate{}, &models.Course{},
		&models.Session{}, &models.NiveauScolaire{}, &models.Thematique{},
		&models.User{},
	} {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			log.Fatalf("Failed to wipe table: %v", err)
		}
	}

	log.Println("Creating admin user...")
	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@atomixlab.com"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Email:    utils.NormalizeEmail(adminEmail),
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Admin created: %s", admin.Email)

	// Build the taxonomy collections from the unique names in the fixture
	sessionIDs := make(map[string]string)
	niveauIDs := make(map[string]string)
	thematiqueIDs := make(map[string]string)

	for _, c := range coursesData {
		if c.Session != "" && sessionIDs[c.Session] == "" {
			session := models.Session{Name: c.Session}
			if err := db.Create(&session).Error; err != nil {
				log.Fatalf("Failed to create session %q: %v", c.Session, err)
			}
			sessionIDs[c.Session] = session.ID
		}
		if c.NiveauScolaire != "" && niveauIDs[c.NiveauScolaire] == "" {
			niveau := models.NiveauScolaire{Name: c.NiveauScolaire}
			if err := db.Create(&niveau).Error; err != nil {
				log.Fatalf("Failed to create niveau scolaire %q: %v", c.NiveauScolaire, err)
			}
			niveauIDs[c.NiveauScolaire] = niveau.ID
		}
		if c.Thematique != "" && thematiqueIDs[c.Thematique] == "" {
			thematique := models.Thematique{Name: c.Thematique}
			if err := db.Create(&thematique).Error; err != nil {
				log.Fatalf("Failed to create thematique %q: %v", c.Thematique, err)
			}
			thematiqueIDs[c.Thematique] = thematique.ID
		}
	}

	log.Printf("Created %d sessions, %d niveaux scolaires, %d thematiques",
		len(sessionIDs), len(niveauIDs), len(thematiqueIDs))

	created := 0
	for _, c := range coursesData {
		if c.Session == "" || c.NiveauScolaire == "" || c.Thematique == "" {
			log.Printf("Skipping course %q: missing taxonomy", c.Title)
			continue
		}

		course := models.Course{
			Title:            c.Title,
			SessionID:        sessionIDs[c.Session],
			NiveauScolaireID: niveauIDs[c.NiveauScolaire],
			ThematiqueID:     thematiqueIDs[c.Thematique],
			Type:             c.Type,
			Description:      c.Description,
			URLDownload:      c.URLDownload,
			CreationDate:     utils.FormatCreationDate(time.Now()),
		}
		if err := db.Create(&course).Error; err != nil {
			log.Fatalf("Failed to create course %q: %v", c.Title, err)
		}

		record := models.CourseUpdate{
			CourseID:    course.ID,
			Type:        models.UpdateTypeCreation,
			UserID:      admin.ID,
			WhatUpdated: "title",
			From:        models.HistoryValue(nil),
			To:          models.HistoryValue(course.Title),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Fatalf("Failed to create history for course %q: %v", c.Title, err)
		}
		created++
	}

	log.Printf("Seed completed: %d courses created.", created)
}
