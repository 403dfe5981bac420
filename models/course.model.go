package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course type classifier values, fixed set
const (
	CourseTypeChimie   = "Chimie"
	CourseTypePhysique = "Physique"
	CourseTypeRappel   = "Rappel de connaissance"
)

// Resource type tags used by the reassignment endpoints
const (
	ResourceSession        = "session"
	ResourceNiveauScolaire = "niveauScolaire"
	ResourceThematique     = "thematique"
)

// TaxonomyColumn maps a resource type tag to the course column holding the
// reference. Unknown tags resolve to "".
func TaxonomyColumn(resourceType string) string {
	switch resourceType {
	case ResourceSession:
		return "session_id"
	case ResourceNiveauScolaire:
		return "niveau_scolaire_id"
	case ResourceThematique:
		return "thematique_id"
	}
	return ""
}

// Course is the primary catalog entity. The wire keys session/niveauScolaire/
// thematique carry the referenced IDs; the *Detail fields carry the resolved
// entities when preloaded.
type Course struct {
	ID               string `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string `gorm:"not null" json:"title"`
	SessionID        string `gorm:"type:uuid;not null;index" json:"session"`
	NiveauScolaireID string `gorm:"type:uuid;not null;index" json:"niveauScolaire"`
	ThematiqueID     string `gorm:"type:uuid;not null;index" json:"thematique"`
	Type             string `gorm:"not null" json:"type"`
	Description      string `gorm:"default:''" json:"description"`
	URLDownload      string `gorm:"not null" json:"urlDownload"`
	CreationDate     string `json:"creationDate"`

	Session        *Session        `gorm:"foreignKey:SessionID" json:"sessionDetail,omitempty"`
	NiveauScolaire *NiveauScolaire `gorm:"foreignKey:NiveauScolaireID" json:"niveauScolaireDetail,omitempty"`
	Thematique     *Thematique     `gorm:"foreignKey:ThematiqueID" json:"thematiqueDetail,omitempty"`

	Updates []CourseUpdate `gorm:"foreignKey:CourseID" json:"updateCours"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Change record types
const (
	UpdateTypeCreation     = "creation"
	UpdateTypeModification = "modification"
)

// CourseUpdate is one entry of a course's change history. Rows are only ever
// inserted; no code path updates or deletes them. Seq gives chronological order.
type CourseUpdate struct {
	Seq         uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	CourseID    string         `gorm:"type:uuid;not null;index" json:"-"`
	Type        string         `gorm:"not null" json:"type"`
	UserID      string         `gorm:"type:uuid;not null" json:"userId"`
	WhatUpdated string         `gorm:"not null" json:"whatUpdated"`
	From        datatypes.JSON `gorm:"column:update_from" json:"from"`
	To          datatypes.JSON `gorm:"column:update_to" json:"to"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// DependentCourse is the lightweight projection returned by dependency checks
type DependentCourse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// FindDependentCourses lists the courses whose given taxonomy column still
// references resourceID. column must come from TaxonomyColumn.
func FindDependentCourses(db *gorm.DB, column, resourceID string) ([]DependentCourse, error) {
	deps := make([]DependentCourse, 0)
	err := db.Model(&Course{}).
		Select("id", "title", "type").
		Where(column+" = ?", resourceID).
		Scan(&deps).Error
	return deps, err
}

// HistoryValue wraps an arbitrary value for a change record's before/after
// fields. Values are opaque to the store; nil marshals to JSON null.
func HistoryValue(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(raw)
}
