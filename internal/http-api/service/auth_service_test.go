package service

import (
	"context"
	"testing"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/http-api/models"
	"socialhub/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-that-is-long-enough!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register(context.Background(), "testuser", "test@example.com", "password123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	existingUser := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "testuser", "test@example.com", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	existingUser := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "testuser", "test@example.com", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	user := &models.User{ID: "user-1", Username: "testuser", Password: hashed}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, loggedIn, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", loggedIn.ID)

	claims, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashed, _ := auth.HashPassword("password123")
	user := &models.User{ID: "user-1", Username: "testuser", Password: hashed}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	_, _, _, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Login(context.Background(), "nobody", "password123")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID: "rt-1", UserID: "user-1", Token: "refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "refresh-token").Return(stored, nil)
	mockUserRepo.On("FindByID", mock.Anything, "user-1").
		Return(&models.User{ID: "user-1", Username: "testuser"}, nil)

	accessToken, err := authService.RefreshAccessToken(context.Background(), "refresh-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID: "rt-1", UserID: "user-1", Token: "refresh-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "refresh-token").Return(stored, nil)
	mockRefreshTokenRepo.On("Delete", mock.Anything, "rt-1").Return(nil)

	_, err := authService.RefreshAccessToken(context.Background(), "refresh-token")

	assert.Equal(t, ErrInvalidToken, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	claims, err := authService.ValidateToken("not-a-jwt")

	assert.Nil(t, claims)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-that-is-long-too!"
	otherService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, otherCfg)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").
		Return(&models.User{ID: "user-1", Username: "testuser", Password: mustHash(t, "pw123456")}, nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	accessToken, _, _, err := authService.Login(context.Background(), "testuser", "pw123456")
	assert.NoError(t, err)

	claims, err := otherService.ValidateToken(accessToken)

	assert.Nil(t, claims)
	assert.Equal(t, ErrInvalidToken, err)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	assert.NoError(t, err)
	return hashed
}
