package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
)

func boolPtr(v bool) *bool       { return &v }
func strPtr(v string) *string    { return &v }

func sampleQuestionInput(id, correct string) QuestionInput {
	return QuestionInput{
		QuestionID:      id,
		QuestionText:    "Что изображено?",
		CorrectAnswerID: correct,
		Answers: []entity.Answer{
			{AnswerID: "a1", AnswerText: "Кот"},
			{AnswerID: "a2", AnswerText: "Пес"},
			{AnswerID: "a3", AnswerText: "Лиса"},
		},
	}
}

func TestValidateQuestionInputs(t *testing.T) {
	t.Run("Совпадающий correct_answer_id проходит", func(t *testing.T) {
		assert.NoError(t, ValidateQuestionInputs([]QuestionInput{sampleQuestionInput("q1", "a2")}))
	})

	t.Run("Меньше трех ответов отвергается", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		q.Answers = q.Answers[:2]

		err := ValidateQuestionInputs([]QuestionInput{q})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("Больше шести ответов отвергается", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		for i := 4; i <= 7; i++ {
			q.Answers = append(q.Answers, entity.Answer{AnswerID: fmt.Sprintf("a%d", i), AnswerText: "Вариант"})
		}

		err := ValidateQuestionInputs([]QuestionInput{q})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("Дубликат answer_id отвергается", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		q.Answers[2].AnswerID = "a1"

		err := ValidateQuestionInputs([]QuestionInput{q})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate answer ID")
	})

	t.Run("Пустой список вопросов отвергается", func(t *testing.T) {
		err := ValidateQuestionInputs([]QuestionInput{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("Больше двадцати вопросов отвергается", func(t *testing.T) {
		questions := make([]QuestionInput, entity.MaxQuestionsPerQuiz+1)
		for i := range questions {
			questions[i] = sampleQuestionInput(fmt.Sprintf("q%d", i), "a1")
		}

		err := ValidateQuestionInputs(questions)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("Отсутствующий correct_answer_id дает ошибку валидации с 1-базной позицией", func(t *testing.T) {
		questions := []QuestionInput{
			sampleQuestionInput("q1", "a1"),
			sampleQuestionInput("q2", "missing"),
		}

		err := ValidateQuestionInputs(questions)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Contains(t, err.Error(), "question no. 2")
	})
}

func TestImageRefUnmarshalJSON(t *testing.T) {
	t.Run("Число декодируется как индекс нового файла", func(t *testing.T) {
		var ref ImageRef
		require.NoError(t, json.Unmarshal([]byte(`2`), &ref))
		assert.Equal(t, NewUploadRef(2), ref)
	})

	t.Run("Строка декодируется как существующий путь", func(t *testing.T) {
		var ref ImageRef
		require.NoError(t, json.Unmarshal([]byte(`"game/image-quiz/g1/old.png"`), &ref))
		assert.Equal(t, ExistingPathRef("game/image-quiz/g1/old.png"), ref)
	})

	t.Run("null и отсутствие поля дают Unspecified", func(t *testing.T) {
		var ref ImageRef
		require.NoError(t, json.Unmarshal([]byte(`null`), &ref))
		assert.Equal(t, ImageRefUnspecified, ref.Kind)

		var q QuestionInput
		require.NoError(t, json.Unmarshal([]byte(`{"question_id":"q1"}`), &q))
		assert.Equal(t, ImageRefUnspecified, q.Image.Kind)
	})

	t.Run("Объект отвергается", func(t *testing.T) {
		var ref ImageRef
		assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &ref))
	})
}

func TestBuildQuizDocument(t *testing.T) {
	t.Run("Индекс нового файла разрешается в путь загрузки", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		q.Image = NewUploadRef(1)

		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{q}}, []string{"up0.png", "up1.png"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "up1.png", doc.Questions[0].QuestionImageURL)
	})

	t.Run("Индекс вне диапазона дает пустой путь без паники", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		q.Image = NewUploadRef(5)

		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{q}}, []string{"up0.png"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "", doc.Questions[0].QuestionImageURL)
	})

	t.Run("Существующий путь сохраняется дословно", func(t *testing.T) {
		q := sampleQuestionInput("q1", "a1")
		q.Image = ExistingPathRef("game/image-quiz/g1/keep.png")

		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{q}}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "game/image-quiz/g1/keep.png", doc.Questions[0].QuestionImageURL)
	})

	t.Run("Неуказанная картинка наследуется по question_id из старого документа", func(t *testing.T) {
		prev := &entity.QuizDocument{
			Questions: []entity.Question{
				{QuestionID: "q1", QuestionImageURL: "old.png"},
			},
		}
		q := sampleQuestionInput("q1", "a1")

		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{q}}, nil, prev)
		require.NoError(t, err)
		assert.Equal(t, "old.png", doc.Questions[0].QuestionImageURL)
	})

	t.Run("Неуказанная картинка нового вопроса остается пустой", func(t *testing.T) {
		prev := &entity.QuizDocument{
			Questions: []entity.Question{
				{QuestionID: "other", QuestionImageURL: "old.png"},
			},
		}
		q := sampleQuestionInput("q-new", "a1")

		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{q}}, nil, prev)
		require.NoError(t, err)
		assert.Equal(t, "", doc.Questions[0].QuestionImageURL)
	})

	t.Run("Не присланные вопросы оставляют прежний состав", func(t *testing.T) {
		prev := &entity.QuizDocument{
			Questions: []entity.Question{{QuestionID: "q1"}, {QuestionID: "q2"}},
			Theme:     entity.ThemeOcean,
		}

		doc, err := BuildQuizDocument(DocumentInput{IsQuestionRandomized: boolPtr(true)}, nil, prev)
		require.NoError(t, err)
		assert.Len(t, doc.Questions, 2)
		assert.True(t, doc.IsQuestionRandomized)
		assert.Equal(t, entity.ThemeOcean, doc.Theme)
	})

	t.Run("Неуказанные флаги наследуются из старого документа", func(t *testing.T) {
		prev := &entity.QuizDocument{IsQuestionRandomized: true, IsAnswerRandomized: true}

		doc, err := BuildQuizDocument(DocumentInput{IsAnswerRandomized: boolPtr(false)}, nil, prev)
		require.NoError(t, err)
		assert.True(t, doc.IsQuestionRandomized)
		assert.False(t, doc.IsAnswerRandomized)
	})

	t.Run("Неуказанные флаги при создании равны false", func(t *testing.T) {
		doc, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{sampleQuestionInput("q1", "a1")}}, nil, nil)
		require.NoError(t, err)
		assert.False(t, doc.IsQuestionRandomized)
		assert.False(t, doc.IsAnswerRandomized)
	})

	t.Run("Неизвестная тема отвергается", func(t *testing.T) {
		_, err := BuildQuizDocument(DocumentInput{Theme: strPtr("space")}, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("Невалидные вопросы отвергаются до построения", func(t *testing.T) {
		_, err := BuildQuizDocument(DocumentInput{Questions: []QuestionInput{sampleQuestionInput("q1", "nope")}}, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})
}
