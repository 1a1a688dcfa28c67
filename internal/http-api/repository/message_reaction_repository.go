package repository

import (
	"context"
	"errors"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type MessageReactionRepository interface {
	FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageReaction, error)
	// Upsert converges on one row per (message, user): a second reaction
	// from the same user replaces the emoji instead of inserting.
	Upsert(ctx context.Context, messageID, userID, emoji string) error
	DeleteByMessageAndUser(ctx context.Context, messageID, userID string) (int64, error)
}

type messageReactionRepository struct {
	db *gorm.DB
}

func NewMessageReactionRepository(db *gorm.DB) MessageReactionRepository {
	return &messageReactionRepository{db: db}
}

func (r *messageReactionRepository) FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageReaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var reactions []models.MessageReaction
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("created_at DESC").
		Find(&reactions).Error
	return reactions, err
}

func (r *messageReactionRepository) Upsert(ctx context.Context, messageID, userID, emoji string) error {
	// Read-then-write inside a transaction; the unique index on
	// (message_id, user_id) catches the race two concurrent upserts lose.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MessageReaction
		err := tx.Where("message_id = ? AND user_id = ?", messageID, userID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Update("emoji", emoji).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.MessageReaction{
				MessageID: messageID,
				UserID:    userID,
				Emoji:     emoji,
			}
			return tx.Create(&reaction).Error
		default:
			return err
		}
	})
}

func (r *messageReactionRepository) DeleteByMessageAndUser(ctx context.Context, messageID, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&models.MessageReaction{})
	return result.RowsAffected, result.Error
}
