package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one direct message between two users. Content may be null when
// the message carries media only; a message never has neither.
type Message struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	FromUserID string    `gorm:"type:uuid;not null;index:idx_messages_from_user" json:"from_user_id"`
	ToUserID   string    `gorm:"type:uuid;not null;index:idx_messages_to_user" json:"to_user_id"`
	Content    *string   `json:"content,omitempty"`
	IsRead     bool      `gorm:"default:false;not null" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (Message) TableName() string {
	return "messages"
}
