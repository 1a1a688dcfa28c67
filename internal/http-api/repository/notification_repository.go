package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]models.Notification, error)
	FindUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	// ExistsUnread reports whether an unread notification matching the
	// structured key already exists. Empty entityType/entityID match any
	// entity for the (user, actor, type) triple.
	ExistsUnread(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (bool, error)
	// DeleteUnreadMatching removes still-unread notifications matching the
	// structured key and returns how many rows went away.
	DeleteUnreadMatching(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) FindUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = false", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error
}

func (r *notificationRepository) matchQuery(ctx context.Context, userID, actorID, ntype, entityType, entityID string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND actor_id = ? AND type = ? AND is_read = false", userID, actorID, ntype)
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}
	return q
}

func (r *notificationRepository) ExistsUnread(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (bool, error) {
	var count int64
	err := r.matchQuery(ctx, userID, actorID, ntype, entityType, entityID).Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) DeleteUnreadMatching(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (int64, error) {
	result := r.matchQuery(ctx, userID, actorID, ntype, entityType, entityID).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
