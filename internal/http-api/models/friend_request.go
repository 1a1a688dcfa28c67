package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

type FriendRequest struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	FromUserID string    `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID   string    `gorm:"type:uuid;not null;index" json:"to_user_id"`
	Message    string    `json:"message"`
	Status     string    `gorm:"default:'pending';not null" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (f *FriendRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
