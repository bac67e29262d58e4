package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
	"github.com/yourusername/imagequiz-api/pkg/auth"
)

func newTestAuthService() (*AuthService, *MockUserRepo) {
	userRepo := new(MockUserRepo)
	jwtService, _ := auth.NewJWTService("test-secret", 1)
	return NewAuthService(userRepo, jwtService), userRepo
}

func hashedUser(password string) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &entity.User{
		ID:       42,
		Username: "player",
		Email:    "player@example.com",
		Password: string(hash),
		Role:     entity.RoleUser,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("Успешная регистрация с ролью user", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
		userRepo.On("GetByUsername", "newbie").Return(nil, apperrors.ErrNotFound)
		userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

		user, err := svc.Register("newbie", "new@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, user.Role)
		userRepo.AssertExpectations(t)
	})

	t.Run("Занятый email дает конфликт", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "taken@example.com").Return(hashedUser("x"), nil)

		_, err := svc.Register("newbie", "taken@example.com", "password123")
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("Занятое имя дает конфликт", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
		userRepo.On("GetByUsername", "player").Return(hashedUser("x"), nil)

		_, err := svc.Register("player", "new@example.com", "password123")
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("Правильные учетные данные дают токен", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "player@example.com").Return(hashedUser("password123"), nil)

		token, user, err := svc.Login("player@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(42), user.ID)
	})

	t.Run("Неверный пароль дает unauthorized", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "player@example.com").Return(hashedUser("password123"), nil)

		_, _, err := svc.Login("player@example.com", "wrong")
		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("Несуществующий email неотличим от неверного пароля", func(t *testing.T) {
		svc, userRepo := newTestAuthService()
		userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

		_, _, err := svc.Login("ghost@example.com", "password123")
		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	})
}
