package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) GenerateToken(userID string) (string, error) {
	return s.token, s.err
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("Success: Should register a valid user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, stubTokens{})
		ctx := context.Background()

		input := RegisterInput{
			Email:    "Walker@Example.com",
			Password: "StrongPassword123!",
		}

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := service.Register(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "walker@example.com", user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Should return error for invalid email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, stubTokens{})

		user, err := service.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "password123"})

		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return error for short password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, stubTokens{})

		user, err := service.Register(context.Background(), RegisterInput{Email: "valid@email.com", Password: "short"})

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should propagate repository error (Duplicate Email)", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, stubTokens{})
		ctx := context.Background()

		mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		user, err := service.Register(ctx, RegisterInput{Email: "duplicate@email.com", Password: "StrongPassword123!"})

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.Nil(t, user)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	user, err := domain.NewUser("walker@example.com")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("correct horse"))

	t.Run("Success: Should issue a token for valid credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "walker@example.com").Return(user, nil)
		service := NewAuthService(mockRepo, stubTokens{token: "signed"})

		token, got, err := service.Login(ctx, LoginInput{Email: "walker@example.com", Password: "correct horse"})

		require.NoError(t, err)
		assert.Equal(t, "signed", token)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("Fail: Wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "walker@example.com").Return(user, nil)
		service := NewAuthService(mockRepo, stubTokens{token: "signed"})

		token, _, err := service.Login(ctx, LoginInput{Email: "walker@example.com", Password: "wrong horse"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Fail: Unknown email looks like a wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)
		service := NewAuthService(mockRepo, stubTokens{token: "signed"})

		_, _, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever1"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Fail: Token signing error is propagated", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByEmail", ctx, "walker@example.com").Return(user, nil)
		boom := errors.New("sign failed")
		service := NewAuthService(mockRepo, stubTokens{err: boom})

		_, _, err := service.Login(ctx, LoginInput{Email: "walker@example.com", Password: "correct horse"})

		assert.ErrorIs(t, err, boom)
	})
}
