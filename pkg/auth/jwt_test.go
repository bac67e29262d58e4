package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	t.Run("Токен проходит круг выпуск-проверка", func(t *testing.T) {
		token, err := svc.GenerateToken(42, "user@example.com", "user")
		require.NoError(t, err)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("Токен с чужим секретом отвергается", func(t *testing.T) {
		other, err := NewJWTService("other-secret", 1)
		require.NoError(t, err)

		token, err := other.GenerateToken(42, "user@example.com", "user")
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("Мусорная строка отвергается", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("Пустой секрет недопустим", func(t *testing.T) {
		_, err := NewJWTService("", 1)
		assert.Error(t, err)
	})
}
