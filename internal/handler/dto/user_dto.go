package dto

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту.
// Хеш пароля наружу не выходит.
type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	GamesPlayed int64  `json:"games_played"`
	TotalScore  int64  `json:"total_score"`
}

// NewUserResponse создает DTO пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		GamesPlayed: user.GamesPlayed,
		TotalScore:  user.TotalScore,
	}
}

// LoginResponse представляет ответ на успешный вход
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}
