package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationMessageNew    = "message_new"
	NotificationFriendRequest = "friend_request"
	NotificationPostReaction  = "post_reaction"
	NotificationComment       = "comment"
	NotificationCommentTag    = "comment_tag"
)

// Notification targets UserID and records who caused it (ActorID).
// EntityType/EntityID identify the triggering entity as a structured key so
// duplicate suppression never has to pattern-match the payload text.
// Payload stays free-form JSON for clients.
type Notification struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_notifications_user" json:"user_id"`
	ActorID    string    `gorm:"type:uuid;not null" json:"actor_id"`
	Type       string    `gorm:"not null;index" json:"type"`
	EntityType string    `gorm:"index:idx_notifications_entity" json:"entity_type"`
	EntityID   string    `gorm:"index:idx_notifications_entity" json:"entity_id"`
	Payload    string    `json:"payload"`
	IsRead     bool      `gorm:"default:false;not null;index" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Associations
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
