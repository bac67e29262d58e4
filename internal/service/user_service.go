package service

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	"github.com/yourusername/imagequiz-api/internal/domain/repository"
)

// UserService предоставляет операции над профилем пользователя
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile возвращает профиль пользователя по ID
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}
