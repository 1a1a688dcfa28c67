package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friend is one accepted friendship. Stored once per pair; UserA/UserB
// ordering follows the original request direction.
type Friend struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserA     string    `gorm:"type:uuid;not null;index" json:"user_a"`
	UserB     string    `gorm:"type:uuid;not null;index" json:"user_b"`
	Since     time.Time `json:"since"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Friend) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

func (Friend) TableName() string {
	return "friends"
}
