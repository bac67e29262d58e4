package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
)

// GameTemplateRepo реализует repository.GameTemplateRepository
type GameTemplateRepo struct {
	db *gorm.DB
}

// NewGameTemplateRepo создает новый репозиторий шаблонов игр
func NewGameTemplateRepo(db *gorm.DB) *GameTemplateRepo {
	return &GameTemplateRepo{db: db}
}

// GetBySlug возвращает шаблон игры по слагу
func (r *GameTemplateRepo) GetBySlug(slug string) (*entity.GameTemplate, error) {
	var template entity.GameTemplate
	err := r.db.First(&template, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Create создает новый шаблон игры
func (r *GameTemplateRepo) Create(template *entity.GameTemplate) error {
	return r.db.Create(template).Error
}
