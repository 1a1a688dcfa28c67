package dto

import "time"

// SendMessageDTO for sending a direct message
type SendMessageDTO struct {
	ToUserID  string   `json:"to_user_id" binding:"required,uuid"`
	Content   string   `json:"content" binding:"max=5000"`
	MediaURLs []string `json:"media_urls" binding:"max=10,dive,url"`
}

// ReactToMessageDTO for reacting to a message
type ReactToMessageDTO struct {
	Emoji string `json:"emoji" binding:"required,max=16"`
}

type MessageMediaInfo struct {
	ID        string `json:"id"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
}

type MessageReactionInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserInfo `json:"user,omitempty"`
}

// MessageResponse is the read-model shape for one message: the row plus
// batch-hydrated participants, media and reactions.
type MessageResponse struct {
	ID         string                `json:"id"`
	FromUserID string                `json:"from_user_id"`
	ToUserID   string                `json:"to_user_id"`
	Content    *string               `json:"content,omitempty"`
	IsRead     bool                  `json:"is_read"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	FromUser   *UserInfo             `json:"from_user,omitempty"`
	ToUser     *UserInfo             `json:"to_user,omitempty"`
	Media      []MessageMediaInfo    `json:"media"`
	Reactions  []MessageReactionInfo `json:"reactions"`
	HasReacted bool                  `json:"has_reacted"`
}

// ConversationInfo is one inbox entry: the correspondent, the most recent
// message exchanged with them and how many of their messages are unread.
type ConversationInfo struct {
	UserID        string           `json:"user_id"`
	User          *UserInfo        `json:"user"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	UnreadCount   int64            `json:"unread_count"`
	LastMessageAt time.Time        `json:"last_message_at"`
}
