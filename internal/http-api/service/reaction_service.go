package service

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/http-api/models"
	"socialhub/internal/http-api/repository"

	"gorm.io/gorm"
)

const defaultReactionEmoji = "❤️"

// ReactionService toggles post likes. The notification side is where the
// dedup contract bites: rapid like/unlike cycles must leave the post owner
// with at most one unread alert, and an unlike takes the pending alert away.
type ReactionService interface {
	// Toggle likes the post if the user has no reaction, unlikes otherwise.
	// Returns whether the post ends up liked.
	Toggle(ctx context.Context, userID, postID string) (bool, error)
	HasReacted(ctx context.Context, userID, postID string) (bool, error)
}

type reactionService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.PostReactionRepository
	notifier     NotificationService
}

func NewReactionService(
	postRepo repository.PostRepository,
	reactionRepo repository.PostReactionRepository,
	notifier NotificationService,
) ReactionService {
	return &reactionService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		notifier:     notifier,
	}
}

func (s *reactionService) Toggle(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.postRepo.FindActiveByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("post not found: %w", ErrNotFound)
		}
		return false, err
	}

	hasReacted, err := s.reactionRepo.Exists(ctx, postID, userID)
	if err != nil {
		return false, err
	}

	if hasReacted {
		if _, err := s.reactionRepo.DeleteByPostAndUser(ctx, postID, userID); err != nil {
			return false, err
		}
		// the like is undone, so a still-unread alert would be stale
		if err := s.notifier.DeleteUnreadMatching(ctx, post.UserID, userID,
			models.NotificationPostReaction, "post", postID); err != nil {
			return false, err
		}
		return false, nil
	}

	reaction := &models.PostReaction{
		PostID: postID,
		UserID: userID,
		Emoji:  defaultReactionEmoji,
	}
	if err := s.reactionRepo.Create(ctx, reaction); err != nil {
		return false, err
	}

	pending, err := s.notifier.HasUnread(ctx, post.UserID, userID,
		models.NotificationPostReaction, "post", postID)
	if err != nil {
		return true, err
	}
	if !pending {
		payload := fmt.Sprintf(`{"postId":%q}`, postID)
		if err := s.notifier.Create(ctx, post.UserID, userID,
			models.NotificationPostReaction, "post", postID, payload); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (s *reactionService) HasReacted(ctx context.Context, userID, postID string) (bool, error) {
	return s.reactionRepo.Exists(ctx, postID, userID)
}
