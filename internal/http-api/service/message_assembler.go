package service

import (
	"context"

	"socialhub/internal/http-api/dto"
	"socialhub/internal/http-api/models"
	"socialhub/internal/http-api/repository"
)

// messageAssembler turns raw message rows into response objects with
// batch-loaded participants, media and reactions. However many rows are in
// the batch, it issues exactly six queries: participant users, participant
// profiles, media, reactions, reacting users, reacting profiles. Per-row
// lookups are the N+1 trap this exists to avoid.
type messageAssembler struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	mediaRepo    repository.MessageMediaRepository
	reactionRepo repository.MessageReactionRepository
}

func newMessageAssembler(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	mediaRepo repository.MessageMediaRepository,
	reactionRepo repository.MessageReactionRepository,
) *messageAssembler {
	return &messageAssembler{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		mediaRepo:    mediaRepo,
		reactionRepo: reactionRepo,
	}
}

func (a *messageAssembler) BuildOne(ctx context.Context, message *models.Message, currentUserID string) (*dto.MessageResponse, error) {
	responses, err := a.Build(ctx, []models.Message{*message}, currentUserID)
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (a *messageAssembler) Build(ctx context.Context, messages []models.Message, currentUserID string) ([]dto.MessageResponse, error) {
	if len(messages) == 0 {
		return []dto.MessageResponse{}, nil
	}

	// distinct participants across the whole batch
	participantIDs := make(map[string]struct{})
	messageIDs := make([]string, 0, len(messages))
	for _, m := range messages {
		participantIDs[m.FromUserID] = struct{}{}
		participantIDs[m.ToUserID] = struct{}{}
		messageIDs = append(messageIDs, m.ID)
	}

	userMap, profileMap, err := a.loadUserInfo(ctx, keys(participantIDs))
	if err != nil {
		return nil, err
	}

	media, err := a.mediaRepo.FindByMessageIDs(ctx, messageIDs)
	if err != nil {
		return nil, err
	}
	mediaByMessage := make(map[string][]models.MessageMedia)
	for _, m := range media {
		mediaByMessage[m.MessageID] = append(mediaByMessage[m.MessageID], m)
	}

	reactions, err := a.reactionRepo.FindByMessageIDs(ctx, messageIDs)
	if err != nil {
		return nil, err
	}
	reactionsByMessage := make(map[string][]models.MessageReaction)
	reactorIDs := make(map[string]struct{})
	reactedByCurrent := make(map[string]bool)
	for _, r := range reactions {
		reactionsByMessage[r.MessageID] = append(reactionsByMessage[r.MessageID], r)
		reactorIDs[r.UserID] = struct{}{}
		if r.UserID == currentUserID {
			reactedByCurrent[r.MessageID] = true
		}
	}

	reactorUserMap, reactorProfileMap, err := a.loadUserInfo(ctx, keys(reactorIDs))
	if err != nil {
		return nil, err
	}

	// assemble purely from the in-memory maps, zero queries from here on
	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		mediaInfo := make([]dto.MessageMediaInfo, 0, len(mediaByMessage[m.ID]))
		for _, md := range mediaByMessage[m.ID] {
			mediaInfo = append(mediaInfo, dto.MessageMediaInfo{
				ID:        md.ID,
				MediaURL:  md.MediaURL,
				MediaType: md.MediaType,
			})
		}

		reactionInfo := make([]dto.MessageReactionInfo, 0, len(reactionsByMessage[m.ID]))
		for _, r := range reactionsByMessage[m.ID] {
			reactionInfo = append(reactionInfo, dto.MessageReactionInfo{
				ID:        r.ID,
				UserID:    r.UserID,
				Emoji:     r.Emoji,
				CreatedAt: r.CreatedAt,
				User:      dto.ToUserInfo(reactorUserMap[r.UserID], reactorProfileMap[r.UserID]),
			})
		}

		responses = append(responses, dto.MessageResponse{
			ID:         m.ID,
			FromUserID: m.FromUserID,
			ToUserID:   m.ToUserID,
			Content:    m.Content,
			IsRead:     m.IsRead,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
			FromUser:   dto.ToUserInfo(userMap[m.FromUserID], profileMap[m.FromUserID]),
			ToUser:     dto.ToUserInfo(userMap[m.ToUserID], profileMap[m.ToUserID]),
			Media:      mediaInfo,
			Reactions:  reactionInfo,
			HasReacted: reactedByCurrent[m.ID],
		})
	}
	return responses, nil
}

// loadUserInfo fetches users and their profiles for a whole id set in one
// query each, returned as lookup maps.
func (a *messageAssembler) loadUserInfo(ctx context.Context, ids []string) (map[string]*models.User, map[string]*models.Profile, error) {
	userMap := make(map[string]*models.User, len(ids))
	profileMap := make(map[string]*models.Profile, len(ids))
	if len(ids) == 0 {
		return userMap, profileMap, nil
	}

	users, err := a.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	profiles, err := a.profileRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range profiles {
		profileMap[profiles[i].UserID] = &profiles[i]
	}
	return userMap, profileMap, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
