package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type MessageMediaRepository interface {
	// FindByMessageIDs loads media for a whole batch of messages in one
	// query; callers group the rows by message id.
	FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageMedia, error)
}

type messageMediaRepository struct {
	db *gorm.DB
}

func NewMessageMediaRepository(db *gorm.DB) MessageMediaRepository {
	return &messageMediaRepository{db: db}
}

func (r *messageMediaRepository) FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageMedia, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var media []models.MessageMedia
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("created_at ASC").
		Find(&media).Error
	return media, err
}
