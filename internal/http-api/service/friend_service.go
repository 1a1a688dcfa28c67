package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/models"
	"socialhub/internal/http-api/repository"

	"gorm.io/gorm"
)

type FriendService interface {
	SendRequest(ctx context.Context, fromUserID string, req dto.SendFriendRequestDTO) (*dto.FriendRequestInfo, error)
	Accept(ctx context.Context, requestID, userID string) (*dto.FriendRequestInfo, error)
	Reject(ctx context.Context, requestID, userID string) error
}

type friendService struct {
	requestRepo repository.FriendRequestRepository
	friendRepo  repository.FriendRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	notifier    NotificationService
}

func NewFriendService(
	requestRepo repository.FriendRequestRepository,
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	notifier NotificationService,
) FriendService {
	return &friendService{
		requestRepo: requestRepo,
		friendRepo:  friendRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
	}
}

func (s *friendService) SendRequest(ctx context.Context, fromUserID string, req dto.SendFriendRequestDTO) (*dto.FriendRequestInfo, error) {
	if req.ToUserID == fromUserID {
		return nil, fmt.Errorf("cannot send a friend request to yourself: %w", ErrValidation)
	}

	if _, err := s.userRepo.FindByID(ctx, req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}

	alreadyFriends, err := s.friendRepo.Exists(ctx, fromUserID, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if alreadyFriends {
		return nil, fmt.Errorf("already friends with this user: %w", ErrValidation)
	}

	pending, err := s.requestRepo.ExistsPending(ctx, fromUserID, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("friend request already sent: %w", ErrValidation)
	}

	reversePending, err := s.requestRepo.ExistsPending(ctx, req.ToUserID, fromUserID)
	if err != nil {
		return nil, err
	}
	if reversePending {
		return nil, fmt.Errorf("this user already sent you a friend request: %w", ErrValidation)
	}

	request := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Message:    req.Message,
		Status:     models.FriendRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	// a rejected-then-resent request must not stack a second unread alert
	hasPendingAlert, err := s.notifier.HasUnread(ctx, req.ToUserID, fromUserID,
		models.NotificationFriendRequest, "", "")
	if err != nil {
		return nil, err
	}
	if !hasPendingAlert {
		payload := fmt.Sprintf(`{"requestId":%q}`, request.ID)
		if err := s.notifier.Create(ctx, req.ToUserID, fromUserID,
			models.NotificationFriendRequest, "friend_request", request.ID, payload); err != nil {
			return nil, err
		}
	}

	return s.buildRequestInfo(ctx, request)
}

func (s *friendService) Accept(ctx context.Context, requestID, userID string) (*dto.FriendRequestInfo, error) {
	request, err := s.findPendingFor(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	request.Status = models.FriendRequestAccepted
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	exists, err := s.friendRepo.Exists(ctx, request.FromUserID, request.ToUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		friend := &models.Friend{
			UserA: request.FromUserID,
			UserB: request.ToUserID,
			Since: time.Now(),
		}
		if err := s.friendRepo.Create(ctx, friend); err != nil {
			return nil, err
		}
	}

	return s.buildRequestInfo(ctx, request)
}

func (s *friendService) Reject(ctx context.Context, requestID, userID string) error {
	request, err := s.findPendingFor(ctx, requestID, userID)
	if err != nil {
		return err
	}
	request.Status = models.FriendRequestRejected
	return s.requestRepo.Save(ctx, request)
}

func (s *friendService) findPendingFor(ctx context.Context, requestID, userID string) (*models.FriendRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friend request not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if request.ToUserID != userID {
		return nil, fmt.Errorf("friend request addressed to another user: %w", ErrForbidden)
	}
	if request.Status != models.FriendRequestPending {
		return nil, fmt.Errorf("friend request is not pending: %w", ErrValidation)
	}
	return request, nil
}

func (s *friendService) buildRequestInfo(ctx context.Context, request *models.FriendRequest) (*dto.FriendRequestInfo, error) {
	participantIDs := []string{request.FromUserID, request.ToUserID}

	users, err := s.userRepo.FindByIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[string]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].UserID] = &profiles[i]
	}

	return &dto.FriendRequestInfo{
		ID:         request.ID,
		FromUserID: request.FromUserID,
		ToUserID:   request.ToUserID,
		Message:    request.Message,
		Status:     request.Status,
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
		FromUser:   dto.ToUserInfo(userMap[request.FromUserID], profileMap[request.FromUserID]),
		ToUser:     dto.ToUserInfo(userMap[request.ToUserID], profileMap[request.ToUserID]),
	}, nil
}
