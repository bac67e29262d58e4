package entity

import (
	"time"
)

// Слаг шаблона для игры "image quiz"
const ImageQuizSlug = "image-quiz"

// Game представляет запись игры. Поле GameJSON — канонический документ
// викторины, принадлежащий движку; остальные поля — сквозные метаданные.
type Game struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	Name           string       `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Description    string       `gorm:"size:256;not null;default:''" json:"description"`
	ThumbnailImage string       `gorm:"size:512;not null;default:''" json:"thumbnail_image"`
	IsPublished    bool         `gorm:"not null;default:false" json:"is_published"`
	CreatorID      uint         `gorm:"not null;index" json:"creator_id"`
	TotalPlayed    int64        `gorm:"not null;default:0" json:"total_played"`
	GameTemplateID uint         `gorm:"not null;index" json:"game_template_id"`
	GameJSON       QuizDocument `gorm:"type:jsonb;not null" json:"game_json"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	GameTemplate *GameTemplate `gorm:"foreignKey:GameTemplateID" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (Game) TableName() string {
	return "games"
}

// IsOwnedBy проверяет, является ли пользователь создателем игры
func (g *Game) IsOwnedBy(userID uint) bool {
	return g.CreatorID == userID
}

// AssetPaths возвращает все пути файлов, на которые ссылается запись:
// обложку и картинки вопросов
func (g *Game) AssetPaths() []string {
	paths := make([]string, 0, len(g.GameJSON.Questions)+1)
	if g.ThumbnailImage != "" {
		paths = append(paths, g.ThumbnailImage)
	}
	paths = append(paths, g.GameJSON.ImagePaths()...)
	return paths
}
