package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// FindActiveByID ignores soft-deleted posts.
	FindActiveByID(ctx context.Context, id string) (*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindActiveByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = false", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}
