package service

import (
	"context"
	"testing"

	"socialhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) ExistsUnread(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (bool, error) {
	args := m.Called(ctx, userID, actorID, ntype, entityType, entityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) DeleteUnreadMatching(ctx context.Context, userID, actorID, ntype, entityType, entityID string) (int64, error) {
	args := m.Called(ctx, userID, actorID, ntype, entityType, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func newNotificationService(t *testing.T) (NotificationService, *MockNotificationRepository, *MockUserRepository, *MockProfileRepository) {
	t.Helper()
	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	return NewNotificationService(repo, userRepo, profileRepo), repo, userRepo, profileRepo
}

func TestNotificationCreate_SuppressesSelf(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	err := svc.Create(context.Background(), "me", "me", models.NotificationPostReaction, "post", "p1", "{}")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationCreate_StoresStructuredKey(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	var captured *models.Notification
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*models.Notification)
		}).Return(nil)

	err := svc.Create(context.Background(), "bob", "alice", models.NotificationPostReaction, "post", "p1", `{"postId":"p1"}`)

	assert.NoError(t, err)
	assert.Equal(t, "bob", captured.UserID)
	assert.Equal(t, "alice", captured.ActorID)
	assert.Equal(t, "post", captured.EntityType)
	assert.Equal(t, "p1", captured.EntityID)
	assert.False(t, captured.IsRead)
}

func TestNotificationList_HydratesActors(t *testing.T) {
	svc, repo, userRepo, profileRepo := newNotificationService(t)

	notifications := []models.Notification{
		{ID: "n2", UserID: "bob", ActorID: "alice", Type: models.NotificationMessageNew},
		{ID: "n1", UserID: "bob", ActorID: "alice", Type: models.NotificationPostReaction, IsRead: true},
	}
	repo.On("FindByUser", mock.Anything, "bob").Return(notifications, nil)
	userRepo.On("FindByIDs", mock.Anything, []string{"alice"}).
		Return([]models.User{{ID: "alice", Username: "alice"}}, nil)
	profileRepo.On("FindByUserIDs", mock.Anything, []string{"alice"}).
		Return([]models.Profile{{UserID: "alice", DisplayName: "Alice"}}, nil)

	responses, err := svc.List(context.Background(), "bob")

	assert.NoError(t, err)
	assert.Len(t, responses, 2)
	assert.Equal(t, "n2", responses[0].ID)
	assert.Equal(t, "alice", responses[0].Actor.Username)
	assert.Equal(t, "Alice", responses[0].Actor.DisplayName)
	assert.True(t, responses[1].IsRead)
}

func TestNotificationMarkAsRead_OwnershipEnforced(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	notification := &models.Notification{ID: "n1", UserID: "bob"}
	repo.On("FindByID", mock.Anything, "n1").Return(notification, nil)

	err := svc.MarkAsRead(context.Background(), "n1", "mallory")

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestNotificationMarkAsRead_AlreadyReadIsNoop(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	notification := &models.Notification{ID: "n1", UserID: "bob", IsRead: true}
	repo.On("FindByID", mock.Anything, "n1").Return(notification, nil)

	assert.NoError(t, svc.MarkAsRead(context.Background(), "n1", "bob"))
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestNotificationDelete_NotFound(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	repo.On("FindByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "missing", "bob")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationHasUnread_DelegatesStructuredMatch(t *testing.T) {
	svc, repo, _, _ := newNotificationService(t)

	repo.On("ExistsUnread", mock.Anything, "bob", "alice", models.NotificationFriendRequest, "", "").
		Return(true, nil)

	pending, err := svc.HasUnread(context.Background(), "bob", "alice", models.NotificationFriendRequest, "", "")

	assert.NoError(t, err)
	assert.True(t, pending)
	repo.AssertExpectations(t)
}
