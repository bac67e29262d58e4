package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreForTime(t *testing.T) {
	bands := DefaultScoreBands(DefaultTimeLimitSeconds)

	cases := []struct {
		name    string
		seconds float64
		want    int
	}{
		{"Мгновенный ответ", 0, 4},
		{"Чуть меньше 10 секунд", 9.999, 4},
		{"Ровно 10 секунд попадает во вторую полосу", 10, 3},
		{"Чуть меньше 20 секунд", 19.5, 3},
		{"Ровно 20 секунд попадает в третью полосу", 20, 2},
		{"Чуть меньше лимита", 29.9, 2},
		{"Ровно лимит дает минимум", 30, 1},
		{"Сильно дольше лимита все равно минимум", 120, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreForTime(tc.seconds, bands))
		})
	}
}

func TestScoreForTimeMonotonic(t *testing.T) {
	// Быстрее - никогда не меньше очков
	bands := DefaultScoreBands(DefaultTimeLimitSeconds)
	prev := scoreForTime(0, bands)
	for s := 0.5; s <= 40; s += 0.5 {
		cur := scoreForTime(s, bands)
		assert.LessOrEqual(t, cur, prev, "время %.1f", s)
		prev = cur
	}
}

func TestScoreSubmissions(t *testing.T) {
	doc := sampleDocument(false, false)
	bands := DefaultScoreBands(DefaultTimeLimitSeconds)

	t.Run("Пачка с одним неверным ответом", func(t *testing.T) {
		subs := []AnswerSubmission{
			{QuestionID: "q1", SelectedAnswerID: "a1", TimeSpentMs: 5000},
			{QuestionID: "q2", SelectedAnswerID: "b1", TimeSpentMs: 3000},
		}

		result := ScoreSubmissions(doc, subs, bands)

		assert.Equal(t, 2, result.TotalQuestions)
		assert.Equal(t, 2, result.TotalAnswered)
		assert.Equal(t, 1, result.CorrectCount)
		assert.Equal(t, 4, result.TotalScore)

		require.Len(t, result.Details, 2)
		assert.True(t, result.Details[0].IsCorrect)
		assert.Equal(t, 4, result.Details[0].Score)
		assert.False(t, result.Details[1].IsCorrect)
		assert.Equal(t, 0, result.Details[1].Score)
	})

	t.Run("Неправильный ответ дает ноль даже мгновенно", func(t *testing.T) {
		subs := []AnswerSubmission{{QuestionID: "q1", SelectedAnswerID: "a3", TimeSpentMs: 0}}

		result := ScoreSubmissions(doc, subs, bands)
		assert.Equal(t, 0, result.TotalScore)
		assert.Equal(t, 0, result.CorrectCount)
	})

	t.Run("Детали раскрывают correct_answer_id", func(t *testing.T) {
		subs := []AnswerSubmission{{QuestionID: "q2", SelectedAnswerID: "b3", TimeSpentMs: 1000}}

		result := ScoreSubmissions(doc, subs, bands)
		require.Len(t, result.Details, 1)
		assert.Equal(t, "b2", result.Details[0].CorrectAnswerID)
	})

	t.Run("Неизвестный вопрос не прерывает пачку и не входит в счетчики", func(t *testing.T) {
		subs := []AnswerSubmission{
			{QuestionID: "ghost", SelectedAnswerID: "a1", TimeSpentMs: 1000},
			{QuestionID: "q1", SelectedAnswerID: "a1", TimeSpentMs: 15000},
		}

		result := ScoreSubmissions(doc, subs, bands)

		assert.Equal(t, 2, result.TotalAnswered)
		assert.Equal(t, 1, result.CorrectCount)
		assert.Equal(t, 3, result.TotalScore)

		require.Len(t, result.Details, 2)
		assert.Equal(t, "question not found", result.Details[0].Error)
		assert.Empty(t, result.Details[0].CorrectAnswerID)
		assert.True(t, result.Details[1].IsCorrect)
	})

	t.Run("Детали идут в порядке присылки", func(t *testing.T) {
		subs := []AnswerSubmission{
			{QuestionID: "q2", SelectedAnswerID: "b2", TimeSpentMs: 1000},
			{QuestionID: "q1", SelectedAnswerID: "a1", TimeSpentMs: 1000},
		}

		result := ScoreSubmissions(doc, subs, bands)
		require.Len(t, result.Details, 2)
		assert.Equal(t, "q2", result.Details[0].QuestionID)
		assert.Equal(t, "q1", result.Details[1].QuestionID)
	})

	t.Run("Пустая пачка дает нулевой результат", func(t *testing.T) {
		result := ScoreSubmissions(doc, nil, bands)
		assert.Equal(t, 0, result.TotalAnswered)
		assert.Equal(t, 0, result.TotalScore)
		assert.Empty(t, result.Details)
	})
}
