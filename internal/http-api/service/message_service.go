package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/models"
	"socialhub/internal/http-api/repository"
	"socialhub/internal/websocket"

	"gorm.io/gorm"
)

type MessageService interface {
	SendMessage(ctx context.Context, fromUserID string, req dto.SendMessageDTO) (*dto.MessageResponse, error)
	GetConversation(ctx context.Context, currentUserID, otherUserID string) ([]dto.MessageResponse, error)
	GetConversations(ctx context.Context, userID string) ([]dto.ConversationInfo, error)
	MarkAsRead(ctx context.Context, messageID, userID string) (*dto.MessageResponse, error)
	MarkAllAsRead(ctx context.Context, currentUserID, otherUserID string) error
	ReactToMessage(ctx context.Context, messageID, userID, emoji string) (*dto.MessageResponse, error)
	RemoveReaction(ctx context.Context, messageID, userID string) error
	DeleteMessage(ctx context.Context, messageID, userID string) error
}

type messageService struct {
	messageRepo  repository.MessageRepository
	reactionRepo repository.MessageReactionRepository
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	notifier     NotificationService
	pusher       Pusher
	assembler    *messageAssembler
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	mediaRepo repository.MessageMediaRepository,
	reactionRepo repository.MessageReactionRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	notifier NotificationService,
	pusher Pusher,
) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		notifier:     notifier,
		pusher:       pusher,
		assembler:    newMessageAssembler(userRepo, profileRepo, mediaRepo, reactionRepo),
	}
}

// SendMessage persists the message and its media in one transaction, emits
// the recipient notification, then pushes to both participants. The pushes
// are best effort: the stored row is the source of truth and a dead socket
// never fails the send.
func (s *messageService) SendMessage(ctx context.Context, fromUserID string, req dto.SendMessageDTO) (*dto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.MediaURLs) == 0 {
		return nil, fmt.Errorf("message must have either content or media: %w", ErrValidation)
	}

	if _, err := s.userRepo.FindByID(ctx, req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipient not found: %w", ErrNotFound)
		}
		return nil, err
	}

	// self-messaging is allowed and lands already read
	isSelf := fromUserID == req.ToUserID

	message := &models.Message{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		IsRead:     isSelf,
	}
	if content != "" {
		message.Content = &content
	}

	media := make([]models.MessageMedia, 0, len(req.MediaURLs))
	for _, mediaURL := range req.MediaURLs {
		media = append(media, models.MessageMedia{
			MediaURL:  mediaURL,
			MediaType: models.InferMediaType(mediaURL),
		})
	}

	if err := s.messageRepo.CreateWithMedia(ctx, message, media); err != nil {
		return nil, err
	}

	if !isSelf {
		payload := fmt.Sprintf(`{"messageId":%q}`, message.ID)
		if err := s.notifier.Create(ctx, req.ToUserID, fromUserID, models.NotificationMessageNew,
			"message", message.ID, payload); err != nil {
			return nil, err
		}
	}

	response, err := s.assembler.BuildOne(ctx, message, fromUserID)
	if err != nil {
		return nil, err
	}

	if !s.pusher.Push(req.ToUserID, websocket.EventNewMessage, response) {
		slog.Debug("recipient offline, push skipped", "message_id", message.ID, "to_user", req.ToUserID)
	}
	s.pusher.Push(fromUserID, websocket.EventMessageSent, response)

	return response, nil
}

func (s *messageService) GetConversation(ctx context.Context, currentUserID, otherUserID string) ([]dto.MessageResponse, error) {
	messages, err := s.messageRepo.FindConversation(ctx, currentUserID, otherUserID)
	if err != nil {
		return nil, err
	}
	return s.assembler.Build(ctx, messages, currentUserID)
}

// GetConversations builds the inbox view: for each correspondent the most
// recent message and the unread count of their messages. Everything is
// batch-loaded; the query count does not grow with the correspondent count.
func (s *messageService) GetConversations(ctx context.Context, userID string) ([]dto.ConversationInfo, error) {
	lastMessages, err := s.messageRepo.FindLastMessagesPerCorrespondent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lastMessages) == 0 {
		return []dto.ConversationInfo{}, nil
	}

	correspondentIDs := make([]string, 0, len(lastMessages))
	for _, m := range lastMessages {
		correspondentIDs = append(correspondentIDs, correspondentOf(&m, userID))
	}

	users, err := s.userRepo.FindByIDs(ctx, correspondentIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[string]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, correspondentIDs)
	if err != nil {
		return nil, err
	}
	profileMap := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		profileMap[profiles[i].UserID] = &profiles[i]
	}

	counts, err := s.messageRepo.CountUnreadByCorrespondent(ctx, userID)
	if err != nil {
		return nil, err
	}
	unreadMap := make(map[string]int64, len(counts))
	for _, c := range counts {
		unreadMap[c.FromUserID] = c.Count
	}

	responses, err := s.assembler.Build(ctx, lastMessages, userID)
	if err != nil {
		return nil, err
	}

	// lastMessages arrive newest-first already; keep that order
	conversations := make([]dto.ConversationInfo, 0, len(lastMessages))
	for i, m := range lastMessages {
		correspondentID := correspondentOf(&m, userID)
		user := userMap[correspondentID]
		if user == nil {
			// correspondent row vanished; drop rather than surface nulls
			slog.Warn("dropping conversation with unresolvable user", "user_id", correspondentID)
			continue
		}
		conversations = append(conversations, dto.ConversationInfo{
			UserID:        correspondentID,
			User:          dto.ToUserInfo(user, profileMap[correspondentID]),
			LastMessage:   &responses[i],
			UnreadCount:   unreadMap[correspondentID],
			LastMessageAt: m.CreatedAt,
		})
	}
	return conversations, nil
}

func (s *messageService) MarkAsRead(ctx context.Context, messageID, userID string) (*dto.MessageResponse, error) {
	message, err := s.findMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.ToUserID != userID {
		return nil, fmt.Errorf("only the recipient can mark a message read: %w", ErrForbidden)
	}

	if !message.IsRead {
		message.IsRead = true
		if err := s.messageRepo.Save(ctx, message); err != nil {
			return nil, err
		}
	}
	return s.assembler.BuildOne(ctx, message, userID)
}

// MarkAllAsRead is scoped to the one conversation and safe to repeat.
func (s *messageService) MarkAllAsRead(ctx context.Context, currentUserID, otherUserID string) error {
	return s.messageRepo.MarkConversationRead(ctx, currentUserID, otherUserID)
}

func (s *messageService) ReactToMessage(ctx context.Context, messageID, userID, emoji string) (*dto.MessageResponse, error) {
	message, err := s.findMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.reactionRepo.Upsert(ctx, messageID, userID, emoji); err != nil {
		return nil, err
	}
	return s.assembler.BuildOne(ctx, message, userID)
}

func (s *messageService) RemoveReaction(ctx context.Context, messageID, userID string) error {
	rows, err := s.reactionRepo.DeleteByMessageAndUser(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("reaction not found: %w", ErrNotFound)
	}
	return nil
}

// DeleteMessage is sender-only and cascades to media and reactions.
func (s *messageService) DeleteMessage(ctx context.Context, messageID, userID string) error {
	message, err := s.findMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if message.FromUserID != userID {
		return fmt.Errorf("only the sender can delete a message: %w", ErrForbidden)
	}
	return s.messageRepo.DeleteCascade(ctx, messageID)
}

func (s *messageService) findMessage(ctx context.Context, messageID string) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return message, nil
}

func correspondentOf(m *models.Message, userID string) string {
	if m.FromUserID == userID {
		return m.ToUserID
	}
	return m.FromUserID
}
