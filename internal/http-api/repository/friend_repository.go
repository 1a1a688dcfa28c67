package repository

import (
	"context"

	"socialhub/internal/http-api/models"

	"gorm.io/gorm"
)

type FriendRequestRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	FindByID(ctx context.Context, id string) (*models.FriendRequest, error)
	Save(ctx context.Context, request *models.FriendRequest) error
	// ExistsPending checks for a pending request in the given direction.
	ExistsPending(ctx context.Context, fromUserID, toUserID string) (bool, error)
}

type FriendRepository interface {
	Create(ctx context.Context, friend *models.Friend) error
	// Exists checks the pair in either direction.
	Exists(ctx context.Context, userA, userB string) (bool, error)
}

type friendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *friendRequestRepository) FindByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *friendRequestRepository) Save(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *friendRequestRepository) ExistsPending(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromUserID, toUserID, models.FriendRequestPending).
		Count(&count).Error
	return count > 0, err
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friend *models.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *friendRepository) Exists(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where("(user_a = ? AND user_b = ?) OR (user_a = ? AND user_b = ?)", userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}
