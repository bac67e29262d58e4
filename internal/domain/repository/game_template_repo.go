package repository

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// GameTemplateRepository определяет методы для работы с шаблонами игр
type GameTemplateRepository interface {
	GetBySlug(slug string) (*entity.GameTemplate, error)
	Create(template *entity.GameTemplate) error
}
