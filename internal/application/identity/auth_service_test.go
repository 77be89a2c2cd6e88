package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/identity"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/auth"
	"github.com/kyber/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-auth-service",
		TokenExpiration: time.Hour,
		Issuer:          "kyber-test",
	})
}

func newTestUser(t *testing.T, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "Test User", "super-secret", role)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	user := newTestUser(t, "admin@example.com", identity.RoleAdmin)
	userRepo.On("FindByEmail", ctx, "admin@example.com").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	response, err := service.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "super-secret"})

	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, "admin@example.com", response.User.Email)
	assert.NotNil(t, user.LastLoginAt, "login time should be recorded")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	user := newTestUser(t, "admin@example.com", identity.RoleAdmin)
	userRepo.On("FindByEmail", ctx, "admin@example.com").Return(user, nil)

	_, err := service.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(userRepo, jwtService, blacklist, nil)
	ctx := context.Background()

	token, err := jwtService.GenerateToken(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, token.Token))

	claims, err := jwtService.ValidateToken(token.Token)
	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Register_FirstUserBecomesAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	userRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)
	userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
		// Register logs in right after saving, which looks the user up again
		saved := args.Get(1).(*identity.User)
		userRepo.On("FindByEmail", ctx, "owner@example.com").Return(saved, nil)
	}).Return(nil)

	response, err := service.Register(ctx, RegisterRequest{
		Email:    "owner@example.com",
		Name:     "Owner",
		Password: "super-secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "admin", response.User.Role)
	assert.NotEmpty(t, response.Token)
}

func TestAuthService_Register_ClosedAfterFirstUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	userRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	_, err := service.Register(ctx, RegisterRequest{
		Email:    "second@example.com",
		Name:     "Second",
		Password: "super-secret",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STATE_CONFLICT", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_ChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	user := newTestUser(t, "admin@example.com", identity.RoleAdmin)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	err := service.ChangePassword(ctx, user.ID.String(), ChangePasswordRequest{
		CurrentPassword: "super-secret",
		NewPassword:     "even-more-secret",
	})

	require.NoError(t, err)
	assert.True(t, user.CheckPassword("even-more-secret"))
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil)
	ctx := context.Background()

	user := newTestUser(t, "admin@example.com", identity.RoleAdmin)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := service.ChangePassword(ctx, user.ID.String(), ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "even-more-secret",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
