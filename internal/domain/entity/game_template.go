package entity

import "time"

// GameTemplate представляет тип игры (например, "image-quiz").
// Запись игры ссылается на шаблон, по слагу которого движок
// отличает свои игры от игр других подсистем.
type GameTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Name      string    `gorm:"size:128;not null;default:''" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameTemplate) TableName() string {
	return "game_templates"
}
