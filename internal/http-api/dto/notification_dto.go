package dto

import "time"

type NotificationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ActorID    string    `json:"actor_id"`
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	Payload    string    `json:"payload,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	Actor      *UserInfo `json:"actor,omitempty"`
}
