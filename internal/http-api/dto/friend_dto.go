package dto

import "time"

// SendFriendRequestDTO for sending a friend request
type SendFriendRequestDTO struct {
	ToUserID string `json:"to_user_id" binding:"required,uuid"`
	Message  string `json:"message" binding:"max=500"`
}

type FriendRequestInfo struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Message    string    `json:"message,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FromUser   *UserInfo `json:"from_user,omitempty"`
	ToUser     *UserInfo `json:"to_user,omitempty"`
}
