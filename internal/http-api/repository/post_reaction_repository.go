package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type PostReactionRepository interface {
	Create(ctx context.Context, reaction *models.PostReaction) error
	Exists(ctx context.Context, postID, userID string) (bool, error)
	DeleteByPostAndUser(ctx context.Context, postID, userID string) (int64, error)
}

type postReactionRepository struct {
	db *gorm.DB
}

func NewPostReactionRepository(db *gorm.DB) PostReactionRepository {
	return &postReactionRepository{db: db}
}

func (r *postReactionRepository) Create(ctx context.Context, reaction *models.PostReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *postReactionRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostReaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *postReactionRepository) DeleteByPostAndUser(ctx context.Context, postID, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostReaction{})
	return result.RowsAffected, result.Error
}
