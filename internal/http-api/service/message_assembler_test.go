package service

import (
	"context"
	"fmt"
	"testing"

	"socialhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

// countingStore backs the assembler with in-memory data and counts every
// repository call, standing in for a query counter on a real database.
type countingStore struct {
	users     map[string]models.User
	profiles  map[string]models.Profile
	media     map[string][]models.MessageMedia
	reactions map[string][]models.MessageReaction
	queries   int
}

func newCountingStore() *countingStore {
	return &countingStore{
		users:     make(map[string]models.User),
		profiles:  make(map[string]models.Profile),
		media:     make(map[string][]models.MessageMedia),
		reactions: make(map[string][]models.MessageReaction),
	}
}

func (s *countingStore) Create(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *countingStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.queries++
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return &u, nil
}

func (s *countingStore) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	s.queries++
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *countingStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.queries++
	return nil, fmt.Errorf("not implemented")
}

func (s *countingStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.queries++
	return nil, fmt.Errorf("not implemented")
}

func (s *countingStore) Save(ctx context.Context, profile *models.Profile) error {
	s.profiles[profile.UserID] = *profile
	return nil
}

func (s *countingStore) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	s.queries++
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile for %s not found", userID)
	}
	return &p, nil
}

func (s *countingStore) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	s.queries++
	out := make([]models.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type countingMediaRepo struct{ store *countingStore }

func (r *countingMediaRepo) FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageMedia, error) {
	r.store.queries++
	var out []models.MessageMedia
	for _, id := range messageIDs {
		out = append(out, r.store.media[id]...)
	}
	return out, nil
}

type countingReactionRepo struct{ store *countingStore }

func (r *countingReactionRepo) FindByMessageIDs(ctx context.Context, messageIDs []string) ([]models.MessageReaction, error) {
	r.store.queries++
	var out []models.MessageReaction
	for _, id := range messageIDs {
		out = append(out, r.store.reactions[id]...)
	}
	return out, nil
}

func (r *countingReactionRepo) Upsert(ctx context.Context, messageID, userID, emoji string) error {
	return fmt.Errorf("not implemented")
}

func (r *countingReactionRepo) DeleteByMessageAndUser(ctx context.Context, messageID, userID string) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

func seedConversation(store *countingStore, n int) []models.Message {
	store.users["alice"] = models.User{ID: "alice", Username: "alice"}
	store.users["bob"] = models.User{ID: "bob", Username: "bob"}
	store.profiles["alice"] = models.Profile{UserID: "alice", DisplayName: "Alice"}

	messages := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("msg-%d", i)
		text := fmt.Sprintf("message %d", i)
		messages = append(messages, models.Message{
			ID: id, FromUserID: "alice", ToUserID: "bob", Content: &text,
		})
		store.media[id] = []models.MessageMedia{
			{ID: id + "-m", MessageID: id, MediaURL: "https://cdn.example.com/p.jpg", MediaType: models.MediaTypeImage},
		}
		store.reactions[id] = []models.MessageReaction{
			{ID: id + "-r", MessageID: id, UserID: "bob", Emoji: "👍"},
		}
	}
	return messages
}

func buildBatch(t *testing.T, n int) int {
	t.Helper()
	store := newCountingStore()
	assembler := newMessageAssembler(store, store, &countingMediaRepo{store: store}, &countingReactionRepo{store: store})

	messages := seedConversation(store, n)
	responses, err := assembler.Build(context.Background(), messages, "bob")

	assert.NoError(t, err)
	assert.Len(t, responses, n)
	return store.queries
}

func TestAssembler_QueryCountIndependentOfBatchSize(t *testing.T) {
	small := buildBatch(t, 1)
	large := buildBatch(t, 100)

	assert.Equal(t, small, large)
	assert.Equal(t, 6, small)
}

func TestAssembler_HydratesMediaReactionsAndUsers(t *testing.T) {
	store := newCountingStore()
	assembler := newMessageAssembler(store, store, &countingMediaRepo{store: store}, &countingReactionRepo{store: store})

	messages := seedConversation(store, 2)
	responses, err := assembler.Build(context.Background(), messages, "bob")

	assert.NoError(t, err)
	assert.Len(t, responses, 2)

	first := responses[0]
	assert.Equal(t, "alice", first.FromUser.Username)
	assert.Equal(t, "Alice", first.FromUser.DisplayName)
	assert.Len(t, first.Media, 1)
	assert.Equal(t, models.MediaTypeImage, first.Media[0].MediaType)
	assert.Len(t, first.Reactions, 1)
	assert.Equal(t, "bob", first.Reactions[0].UserID)
	assert.True(t, first.HasReacted)
}

func TestAssembler_EmptyBatchQueriesNothing(t *testing.T) {
	store := newCountingStore()
	assembler := newMessageAssembler(store, store, &countingMediaRepo{store: store}, &countingReactionRepo{store: store})

	responses, err := assembler.Build(context.Background(), []models.Message{}, "bob")

	assert.NoError(t, err)
	assert.Empty(t, responses)
	assert.Equal(t, 0, store.queries)
}
