package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

func sampleDocument(qRand, aRand bool) *entity.QuizDocument {
	return &entity.QuizDocument{
		IsQuestionRandomized: qRand,
		IsAnswerRandomized:   aRand,
		Questions: []entity.Question{
			{
				QuestionID:      "q1",
				QuestionText:    "Первый",
				CorrectAnswerID: "a1",
				Answers: []entity.Answer{
					{AnswerID: "a1", AnswerText: "Кот"},
					{AnswerID: "a2", AnswerText: "Пес"},
					{AnswerID: "a3", AnswerText: "Лиса"},
				},
			},
			{
				QuestionID:      "q2",
				QuestionText:    "Второй",
				CorrectAnswerID: "b2",
				Answers: []entity.Answer{
					{AnswerID: "b1", AnswerText: "Море"},
					{AnswerID: "b2", AnswerText: "Река"},
					{AnswerID: "b3", AnswerText: "Озеро"},
				},
			},
		},
	}
}

// reverseIntn всегда выбирает индекс 0, что для Фишера-Йетса дает
// детерминированную нетождественную перестановку
func reverseIntn(int) int { return 0 }

func TestProjectPlayView(t *testing.T) {
	t.Run("Проекция не содержит correct_answer_id", func(t *testing.T) {
		view := ProjectPlayView(sampleDocument(false, false), DefaultPlayConfig(), nil)

		raw, err := json.Marshal(view)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "correct_answer_id")
	})

	t.Run("Без флагов порядок авторский", func(t *testing.T) {
		view := ProjectPlayView(sampleDocument(false, false), DefaultPlayConfig(), reverseIntn)

		require.Len(t, view.Questions, 2)
		assert.Equal(t, "q1", view.Questions[0].QuestionID)
		assert.Equal(t, "q2", view.Questions[1].QuestionID)
		assert.Equal(t, "a1", view.Questions[0].Answers[0].AnswerID)
	})

	t.Run("Флаг вопросов перемешивает вопросы, но не ответы", func(t *testing.T) {
		view := ProjectPlayView(sampleDocument(true, false), DefaultPlayConfig(), reverseIntn)

		assert.Equal(t, "q2", view.Questions[0].QuestionID)
		// Внутри каждого вопроса порядок ответов авторский
		for _, q := range view.Questions {
			if q.QuestionID == "q1" {
				assert.Equal(t, []string{"a1", "a2", "a3"}, answerIDs(q.Answers))
			}
		}
	})

	t.Run("Флаг ответов перемешивает ответы каждого вопроса независимо", func(t *testing.T) {
		view := ProjectPlayView(sampleDocument(false, true), DefaultPlayConfig(), reverseIntn)

		assert.Equal(t, "q1", view.Questions[0].QuestionID)
		assert.NotEqual(t, []string{"a1", "a2", "a3"}, answerIDs(view.Questions[0].Answers))
		assert.ElementsMatch(t, []string{"a1", "a2", "a3"}, answerIDs(view.Questions[0].Answers))
		assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, answerIDs(view.Questions[1].Answers))
	})

	t.Run("Исходный документ не мутируется", func(t *testing.T) {
		doc := sampleDocument(true, true)
		_ = ProjectPlayView(doc, DefaultPlayConfig(), reverseIntn)

		assert.Equal(t, "q1", doc.Questions[0].QuestionID)
		assert.Equal(t, "a1", doc.Questions[0].Answers[0].AnswerID)
	})

	t.Run("Конфигурация плиток прокидывается как есть", func(t *testing.T) {
		cfg := PlayConfig{TimeLimitSeconds: 45, TotalTiles: 64, RevealInterval: 0.5}
		view := ProjectPlayView(sampleDocument(false, false), cfg, nil)

		assert.Equal(t, cfg, view.TileConfig)
	})

	t.Run("Пустой документ дает пустую проекцию", func(t *testing.T) {
		view := ProjectPlayView(&entity.QuizDocument{}, DefaultPlayConfig(), nil)
		assert.Empty(t, view.Questions)
	})
}

func answerIDs(answers []entity.Answer) []string {
	ids := make([]string, len(answers))
	for i, a := range answers {
		ids[i] = a.AnswerID
	}
	return ids
}
