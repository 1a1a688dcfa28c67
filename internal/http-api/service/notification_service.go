package service

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/models"
	"socialhub/internal/http-api/repository"

	"gorm.io/gorm"
)

// NotificationService owns the notification lifecycle, including duplicate
// suppression. Dedup matches on the structured (target, actor, type,
// entity) key of still-unread rows; once a notification is read it never
// suppresses a later one.
type NotificationService interface {
	// Create stores a notification unless the actor is the target;
	// self-triggered actions never alert anyone.
	Create(ctx context.Context, userID, actorID, ntype, entityType, entityID, payload string) error
	// HasUnread reports whether an equivalent unread notification is already
	// pending. Empty entity fields match any entity for the triple.
	HasUnread(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (bool, error)
	// DeleteUnreadMatching removes pending notifications for an action that
	// was undone. Absence of a match is not an error.
	DeleteUnreadMatching(ctx context.Context, userID, actorID, ntype, entityType, entityID string) error
	List(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, notificationID, userID string) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *notificationService) Create(ctx context.Context, userID, actorID, ntype, entityType, entityID, payload string) error {
	if userID == actorID {
		return nil
	}
	notification := &models.Notification{
		UserID:     userID,
		ActorID:    actorID,
		Type:       ntype,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
	}
	return s.repo.Create(ctx, notification)
}

func (s *notificationService) HasUnread(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (bool, error) {
	return s.repo.ExistsUnread(ctx, userID, actorID, ntype, entityType, entityID)
}

func (s *notificationService) DeleteUnreadMatching(ctx context.Context, userID, actorID, ntype, entityType, entityID string) error {
	_, err := s.repo.DeleteUnreadMatching(ctx, userID, actorID, ntype, entityType, entityID)
	return err
}

// List returns the user's notifications newest-first with actor info
// hydrated from two batch queries, not one pair per row.
func (s *notificationService) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return []dto.NotificationResponse{}, nil
	}

	actorIDSet := make(map[string]struct{})
	for _, n := range notifications {
		actorIDSet[n.ActorID] = struct{}{}
	}
	actorIDs := make([]string, 0, len(actorIDSet))
	for id := range actorIDSet {
		actorIDs = append(actorIDs, id)
	}

	actors, err := s.userRepo.FindByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	actorMap := make(map[string]*models.User, len(actors))
	for i := range actors {
		actorMap[actors[i].ID] = &actors[i]
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].UserID] = &profiles[i]
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.NotificationResponse{
			ID:         n.ID,
			UserID:     n.UserID,
			ActorID:    n.ActorID,
			Type:       n.Type,
			EntityType: n.EntityType,
			EntityID:   n.EntityID,
			Payload:    n.Payload,
			IsRead:     n.IsRead,
			CreatedAt:  n.CreatedAt,
			Actor:      dto.ToUserInfo(actorMap[n.ActorID], profileMap[n.ActorID]),
		})
	}
	return responses, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	notification, err := s.findOwned(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, notificationID, userID string) error {
	if _, err := s.findOwned(ctx, notificationID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *notificationService) findOwned(ctx context.Context, notificationID, userID string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, fmt.Errorf("notification belongs to another user: %w", ErrForbidden)
	}
	return notification, nil
}
