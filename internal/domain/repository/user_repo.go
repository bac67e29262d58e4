package repository

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// IncrementGamesPlayed атомарно увеличивает games_played на 1
	IncrementGamesPlayed(userID uint) error
	// AddScore атомарно добавляет очки к total_score
	AddScore(userID uint, score int64) error
}
