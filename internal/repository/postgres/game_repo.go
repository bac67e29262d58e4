package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create создает новую запись игры.
// Уникальный индекс по name превращается в ErrConflict.
func (r *GameRepo) Create(game *entity.Game) error {
	if err := r.db.Create(game).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: game name %q already exists", apperrors.ErrConflict, game.Name)
		}
		return err
	}
	return nil
}

// GetByID возвращает игру по ID вместе с шаблоном
func (r *GameRepo) GetByID(id string) (*entity.Game, error) {
	var game entity.Game
	err := r.db.Preload("GameTemplate").First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// GetByName возвращает игру по имени
func (r *GameRepo) GetByName(name string) (*entity.Game, error) {
	var game entity.Game
	err := r.db.First(&game, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Update сохраняет обновленную запись игры
func (r *GameRepo) Update(game *entity.Game) error {
	if err := r.db.Save(game).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: game name %q already exists", apperrors.ErrConflict, game.Name)
		}
		return err
	}
	return nil
}

// Delete удаляет запись игры
func (r *GameRepo) Delete(id string) error {
	return r.db.Delete(&entity.Game{}, "id = ?", id).Error
}

// ListByCreator возвращает игры пользователя с пагинацией и total count
func (r *GameRepo) ListByCreator(creatorID uint, limit, offset int) ([]entity.Game, int64, error) {
	var games []entity.Game
	var total int64

	query := r.db.Model(&entity.Game{}).Where("creator_id = ?", creatorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&games).Error
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// IncrementPlayCount атомарно увеличивает total_played через gorm.Expr
func (r *GameRepo) IncrementPlayCount(id string) error {
	return r.db.Model(&entity.Game{}).
		Where("id = ?", id).
		UpdateColumn("total_played", gorm.Expr("total_played + ?", 1)).
		Error
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
