package dto

import (
	"time"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// GameResponse представляет полную запись игры для создателя.
// Включает ключи ответов, поэтому отдается только после авторизации.
type GameResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	ThumbnailImage string              `json:"thumbnail_image,omitempty"`
	IsPublished    bool                `json:"is_published"`
	TotalPlayed    int64               `json:"total_played"`
	GameJSON       entity.QuizDocument `json:"game_json"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// GameListItemResponse представляет игру в списке без тела документа
type GameListItemResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	ThumbnailImage string    `json:"thumbnail_image,omitempty"`
	IsPublished    bool      `json:"is_published"`
	TotalPlayed    int64     `json:"total_played"`
	QuestionCount  int       `json:"question_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaginatedGameListResponse представляет пагинированный список игр
type PaginatedGameListResponse struct {
	Games   []GameListItemResponse `json:"games"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
}

// NewGameResponse создает DTO полной записи игры
func NewGameResponse(game *entity.Game) *GameResponse {
	return &GameResponse{
		ID:             game.ID,
		Name:           game.Name,
		Description:    game.Description,
		ThumbnailImage: game.ThumbnailImage,
		IsPublished:    game.IsPublished,
		TotalPlayed:    game.TotalPlayed,
		GameJSON:       game.GameJSON,
		CreatedAt:      game.CreatedAt,
		UpdatedAt:      game.UpdatedAt,
	}
}

// NewGameListResponse создает DTO пагинированного списка игр
func NewGameListResponse(games []entity.Game, total int64, page, perPage int) *PaginatedGameListResponse {
	items := make([]GameListItemResponse, len(games))
	for i, g := range games {
		items[i] = GameListItemResponse{
			ID:             g.ID,
			Name:           g.Name,
			Description:    g.Description,
			ThumbnailImage: g.ThumbnailImage,
			IsPublished:    g.IsPublished,
			TotalPlayed:    g.TotalPlayed,
			QuestionCount:  len(g.GameJSON.Questions),
			CreatedAt:      g.CreatedAt,
			UpdatedAt:      g.UpdatedAt,
		}
	}
	return &PaginatedGameListResponse{
		Games:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
