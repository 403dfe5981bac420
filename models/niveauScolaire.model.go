package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NiveauScolaire is a grade level ("Terminale S"). Referenced by courses.
type NiveauScolaire struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"default:''" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (n *NiveauScolaire) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
