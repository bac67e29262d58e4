package repository

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// GameRepository определяет методы для работы с записями игр
type GameRepository interface {
	Create(game *entity.Game) error
	GetByID(id string) (*entity.Game, error)
	GetByName(name string) (*entity.Game, error)
	Update(game *entity.Game) error
	Delete(id string) error
	// ListByCreator возвращает игры пользователя с пагинацией и общим количеством
	ListByCreator(creatorID uint, limit, offset int) ([]entity.Game, int64, error)
	// IncrementPlayCount атомарно увеличивает total_played на 1
	IncrementPlayCount(id string) error
}
