package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type MessageMedia struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	MessageID string    `gorm:"type:uuid;not null;index:idx_message_media_message" json:"message_id"`
	MediaURL  string    `gorm:"not null" json:"media_url"`
	MediaType string    `gorm:"not null" json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *MessageMedia) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (MessageMedia) TableName() string {
	return "message_media"
}

// InferMediaType classifies a media URL as image or video by well-known
// substrings in the URL or path. Anything ambiguous is treated as an image.
func InferMediaType(mediaURL string) string {
	lower := strings.ToLower(mediaURL)
	videoMarkers := []string{"/video/", "resource_type=video", ".mp4", ".mov", ".avi", ".mpeg"}
	for _, marker := range videoMarkers {
		if strings.Contains(lower, marker) {
			return MediaTypeVideo
		}
	}
	return MediaTypeImage
}
