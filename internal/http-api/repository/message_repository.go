package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

// UnreadCount is one row of the unread-per-correspondent aggregate.
type UnreadCount struct {
	FromUserID string
	Count      int64
}

type MessageRepository interface {
	// CreateWithMedia persists the message and its media rows in one
	// transaction; either everything lands or nothing does.
	CreateWithMedia(ctx context.Context, message *models.Message, media []models.MessageMedia) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	Save(ctx context.Context, message *models.Message) error
	// DeleteCascade removes the message together with its media and
	// reactions in one transaction.
	DeleteCascade(ctx context.Context, messageID string) error
	// FindConversation returns every message between the two users in
	// persistence order (created_at, then id for equal timestamps).
	FindConversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	// FindLastMessagesPerCorrespondent returns, for each distinct
	// correspondent of userID, the single most recent message, newest first.
	FindLastMessagesPerCorrespondent(ctx context.Context, userID string) ([]models.Message, error)
	// CountUnreadByCorrespondent aggregates unread counts for userID grouped
	// by sender in a single query.
	CountUnreadByCorrespondent(ctx context.Context, userID string) ([]UnreadCount, error)
	// MarkConversationRead flags every unread message from otherUserID to
	// currentUserID as read. Safe to repeat.
	MarkConversationRead(ctx context.Context, currentUserID, otherUserID string) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateWithMedia(ctx context.Context, message *models.Message, media []models.MessageMedia) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		for i := range media {
			media[i].MessageID = message.ID
			if err := tx.Create(&media[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Save(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

func (r *messageRepository) DeleteCascade(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&models.MessageMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", messageID).Delete(&models.MessageReaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, "id = ?", messageID).Error
	})
}

func (r *messageRepository) FindConversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) FindLastMessagesPerCorrespondent(ctx context.Context, userID string) ([]models.Message, error) {
	// Window function rather than MAX(id): the newest message wins by
	// timestamp, with id as the tie-break, so the result is deterministic.
	var messages []models.Message
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, from_user_id, to_user_id, content, is_read, created_at, updated_at FROM (
			SELECT m.*, ROW_NUMBER() OVER (
				PARTITION BY CASE WHEN m.from_user_id = @uid THEN m.to_user_id ELSE m.from_user_id END
				ORDER BY m.created_at DESC, m.id DESC
			) AS rn
			FROM messages m
			WHERE m.from_user_id = @uid OR m.to_user_id = @uid
		) ranked
		WHERE rn = 1
		ORDER BY created_at DESC, id DESC`,
		map[string]interface{}{"uid": userID},
	).Scan(&messages).Error
	return messages, err
}

func (r *messageRepository) CountUnreadByCorrespondent(ctx context.Context, userID string) ([]UnreadCount, error) {
	var counts []UnreadCount
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("from_user_id, COUNT(*) AS count").
		Where("to_user_id = ? AND is_read = false", userID).
		Group("from_user_id").
		Scan(&counts).Error
	return counts, err
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, currentUserID, otherUserID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("to_user_id = ? AND from_user_id = ? AND is_read = false", currentUserID, otherUserID).
		Update("is_read", true).Error
}
