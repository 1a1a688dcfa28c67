package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageReaction holds at most one row per (message, user); reacting again
// updates the emoji in place. The unique index backs the upsert.
type MessageReaction struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	MessageID string    `gorm:"type:uuid;not null;uniqueIndex:idx_message_reactions_message_user" json:"message_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_message_reactions_message_user" json:"user_id"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *MessageReaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
