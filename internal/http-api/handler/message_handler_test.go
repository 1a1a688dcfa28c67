package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMessageService mocks the MessageService interface
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) SendMessage(ctx context.Context, fromUserID string, req dto.SendMessageDTO) (*dto.MessageResponse, error) {
	args := m.Called(ctx, fromUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockMessageService) GetConversation(ctx context.Context, currentUserID, otherUserID string) ([]dto.MessageResponse, error) {
	args := m.Called(ctx, currentUserID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MessageResponse), args.Error(1)
}

func (m *MockMessageService) GetConversations(ctx context.Context, userID string) ([]dto.ConversationInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ConversationInfo), args.Error(1)
}

func (m *MockMessageService) MarkAsRead(ctx context.Context, messageID, userID string) (*dto.MessageResponse, error) {
	args := m.Called(ctx, messageID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockMessageService) MarkAllAsRead(ctx context.Context, currentUserID, otherUserID string) error {
	args := m.Called(ctx, currentUserID, otherUserID)
	return args.Error(0)
}

func (m *MockMessageService) ReactToMessage(ctx context.Context, messageID, userID, emoji string) (*dto.MessageResponse, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockMessageService) RemoveReaction(ctx context.Context, messageID, userID string) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

func (m *MockMessageService) DeleteMessage(ctx context.Context, messageID, userID string) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

// setupMessageRouter wires the handler behind a stub auth middleware that
// injects the acting user the way the real middleware does.
func setupMessageRouter(svc service.MessageService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/messages")
	if userID != "" {
		group.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
		})
	}
	NewMessageHandler(svc).RegisterRoutes(group)
	return router
}

func TestSendMessageHandler_Success(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "sender")

	response := &dto.MessageResponse{ID: "msg-1", FromUserID: "sender", ToUserID: "recipient"}
	mockSvc.On("SendMessage", mock.Anything, "sender", mock.AnythingOfType("dto.SendMessageDTO")).
		Return(response, nil)

	toUserID := "3b8e7f9a-1f26-4a8b-9a10-06a6e1c2d4e5"
	body, _ := json.Marshal(dto.SendMessageDTO{ToUserID: toUserID, Content: "hello"})
	req, _ := http.NewRequest("POST", "/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope map[string]dto.MessageResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "msg-1", envelope["message"].ID)
	mockSvc.AssertExpectations(t)
}

func TestSendMessageHandler_InvalidBody(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "sender")

	// to_user_id must be a uuid
	body := []byte(`{"to_user_id":"not-a-uuid","content":"hello"}`)
	req, _ := http.NewRequest("POST", "/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageHandler_Unauthenticated(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "")

	toUserID := "3b8e7f9a-1f26-4a8b-9a10-06a6e1c2d4e5"
	body, _ := json.Marshal(dto.SendMessageDTO{ToUserID: toUserID, Content: "hello"})
	req, _ := http.NewRequest("POST", "/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendMessageHandler_ValidationErrorMapsTo400(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "sender")

	mockSvc.On("SendMessage", mock.Anything, "sender", mock.Anything).
		Return(nil, fmt.Errorf("message must have either content or media: %w", service.ErrValidation))

	toUserID := "3b8e7f9a-1f26-4a8b-9a10-06a6e1c2d4e5"
	body, _ := json.Marshal(dto.SendMessageDTO{ToUserID: toUserID, Content: " "})
	req, _ := http.NewRequest("POST", "/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConversationsHandler_Success(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "me")

	conversations := []dto.ConversationInfo{{UserID: "bob", UnreadCount: 2}}
	mockSvc.On("GetConversations", mock.Anything, "me").Return(conversations, nil)

	req, _ := http.NewRequest("GET", "/messages/conversations", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string][]dto.ConversationInfo
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope["conversations"], 1)
	assert.Equal(t, int64(2), envelope["conversations"][0].UnreadCount)
}

func TestMarkAsReadHandler_ForbiddenMapsTo403(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "alice")

	mockSvc.On("MarkAsRead", mock.Anything, "msg-1", "alice").
		Return(nil, fmt.Errorf("only the recipient can mark a message read: %w", service.ErrForbidden))

	req, _ := http.NewRequest("PUT", "/messages/msg-1/read", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteMessageHandler_NotFoundMapsTo404(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "alice")

	mockSvc.On("DeleteMessage", mock.Anything, "missing", "alice").
		Return(fmt.Errorf("message not found: %w", service.ErrNotFound))

	req, _ := http.NewRequest("DELETE", "/messages/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllAsReadHandler_Success(t *testing.T) {
	mockSvc := new(MockMessageService)
	router := setupMessageRouter(mockSvc, "me")

	mockSvc.On("MarkAllAsRead", mock.Anything, "me", "bob").Return(nil)

	req, _ := http.NewRequest("PUT", "/messages/conversation/bob/read-all", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}
