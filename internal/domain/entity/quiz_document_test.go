package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_HasAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		QuestionID:      "q-1",
		CorrectAnswerID: "a-2",
		Answers: []Answer{
			{AnswerID: "a-1", AnswerText: "Париж"},
			{AnswerID: "a-2", AnswerText: "Лондон"},
			{AnswerID: "a-3", AnswerText: "Берлин"},
		},
	}

	// Act & Assert
	assert.True(t, question.HasAnswer("a-1"))
	assert.True(t, question.HasAnswer("a-3"))
	assert.False(t, question.HasAnswer("a-9"), "HasAnswer должен вернуть false для несуществующего ID")
	assert.False(t, question.HasAnswer(""), "HasAnswer должен вернуть false для пустого ID")
}

func TestQuestion_IsCorrect(t *testing.T) {
	question := &Question{CorrectAnswerID: "a-2"}

	assert.True(t, question.IsCorrect("a-2"))
	assert.False(t, question.IsCorrect("a-1"))
	assert.False(t, question.IsCorrect(""))
}

func TestQuizDocument_ScanValue_RoundTrip(t *testing.T) {
	// Arrange
	doc := QuizDocument{
		IsQuestionRandomized: true,
		IsAnswerRandomized:   false,
		Theme:                ThemeOcean,
		Questions: []Question{
			{
				QuestionID:       "q-1",
				QuestionText:     "Что изображено на картинке?",
				QuestionImageURL: "game/image-quiz/abc/1.png",
				CorrectAnswerID:  "a-1",
				Answers: []Answer{
					{AnswerID: "a-1", AnswerText: "Кит"},
					{AnswerID: "a-2", AnswerText: "Акула"},
					{AnswerID: "a-3", AnswerText: "Дельфин"},
				},
			},
		},
	}

	// Act: сериализуем как для записи в JSONB и читаем обратно
	value, err := doc.Value()
	require.NoError(t, err)

	var restored QuizDocument
	require.NoError(t, restored.Scan(value))

	// Assert
	assert.Equal(t, doc, restored)
}

func TestQuizDocument_Scan_NilAndEmpty(t *testing.T) {
	var doc QuizDocument
	require.NoError(t, doc.Scan(nil), "NULL из базы не должен быть ошибкой")
	assert.Empty(t, doc.Questions)

	require.NoError(t, doc.Scan([]byte{}))
	assert.Empty(t, doc.Questions)

	err := doc.Scan("not bytes")
	assert.Error(t, err, "Scan должен вернуть ошибку для неожиданного типа")
}

func TestQuizDocument_FindQuestion(t *testing.T) {
	doc := &QuizDocument{
		Questions: []Question{
			{QuestionID: "q-1"},
			{QuestionID: "q-2"},
		},
	}

	found := doc.FindQuestion("q-2")
	require.NotNil(t, found)
	assert.Equal(t, "q-2", found.QuestionID)

	assert.Nil(t, doc.FindQuestion("q-404"))
}

func TestQuizDocument_ImagePaths_SkipsEmpty(t *testing.T) {
	doc := &QuizDocument{
		Questions: []Question{
			{QuestionID: "q-1", QuestionImageURL: "game/image-quiz/x/1.png"},
			{QuestionID: "q-2", QuestionImageURL: ""},
			{QuestionID: "q-3", QuestionImageURL: "game/image-quiz/x/3.png"},
		},
	}

	assert.Equal(t, []string{"game/image-quiz/x/1.png", "game/image-quiz/x/3.png"}, doc.ImagePaths())
}

func TestGame_AssetPaths(t *testing.T) {
	game := &Game{
		ThumbnailImage: "game/image-quiz/x/thumb.png",
		GameJSON: QuizDocument{
			Questions: []Question{
				{QuestionID: "q-1", QuestionImageURL: "game/image-quiz/x/1.png"},
				{QuestionID: "q-2"},
			},
		},
	}

	assert.Equal(t, []string{"game/image-quiz/x/thumb.png", "game/image-quiz/x/1.png"}, game.AssetPaths())

	// Без обложки возвращаются только картинки вопросов
	game.ThumbnailImage = ""
	assert.Equal(t, []string{"game/image-quiz/x/1.png"}, game.AssetPaths())
}

func TestGame_IsOwnedBy(t *testing.T) {
	game := &Game{CreatorID: 7}

	assert.True(t, game.IsOwnedBy(7))
	assert.False(t, game.IsOwnedBy(8))
}

func TestUser_IsSuperAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsSuperAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsSuperAdmin())
	assert.False(t, (&User{}).IsSuperAdmin())
}
