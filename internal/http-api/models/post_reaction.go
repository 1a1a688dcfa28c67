package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostReaction struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_reactions_post_user" json:"post_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_reactions_post_user" json:"user_id"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *PostReaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (PostReaction) TableName() string {
	return "post_reactions"
}
