package service

import (
	"fmt"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
)

// QuestionInput представляет вопрос в том виде, в котором его прислал автор.
// Поле Image декодируется из union-поля question_image_array_index.
type QuestionInput struct {
	QuestionID      string          `json:"question_id"`
	QuestionText    string          `json:"question_text"`
	CorrectAnswerID string          `json:"correct_answer_id"`
	Answers         []entity.Answer `json:"answers"`
	Image           ImageRef        `json:"question_image_array_index"`
}

// DocumentInput - входные данные для построения канонического документа.
// nil-поля означают "не указано": при обновлении значение наследуется
// из предыдущего документа, при создании берется умолчание.
type DocumentInput struct {
	Questions            []QuestionInput // nil при обновлении = оставить старые вопросы
	IsQuestionRandomized *bool
	IsAnswerRandomized   *bool
	Theme                *string
}

// ValidateQuestionInputs проверяет сквозную согласованность вопросов:
// количество вопросов и ответов в допустимых пределах, answer_id уникальны
// внутри вопроса, объявленный correct_answer_id встречается среди ответов.
// Позиция вопроса в ошибке 1-базная.
func ValidateQuestionInputs(questions []QuestionInput) error {
	if len(questions) < entity.MinQuestionsPerQuiz || len(questions) > entity.MaxQuestionsPerQuiz {
		return fmt.Errorf("%w: quiz must have between %d and %d questions, got %d",
			apperrors.ErrValidation, entity.MinQuestionsPerQuiz, entity.MaxQuestionsPerQuiz, len(questions))
	}

	for i, q := range questions {
		if len(q.Answers) < entity.MinAnswersPerQuestion || len(q.Answers) > entity.MaxAnswersPerQuestion {
			return fmt.Errorf("%w: question no. %d: must have between %d and %d answers, got %d",
				apperrors.ErrValidation, i+1, entity.MinAnswersPerQuestion, entity.MaxAnswersPerQuestion, len(q.Answers))
		}

		seen := make(map[string]bool, len(q.Answers))
		found := false
		for _, a := range q.Answers {
			if seen[a.AnswerID] {
				return fmt.Errorf("%w: question no. %d: duplicate answer ID %q", apperrors.ErrValidation, i+1, a.AnswerID)
			}
			seen[a.AnswerID] = true
			if a.AnswerID == q.CorrectAnswerID {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: question no. %d: correct answer ID not found in options", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// BuildQuizDocument строит канонический документ из авторского ввода.
// uploaded - пути только что загруженных файлов в порядке загрузки,
// prev - предыдущий документ (nil при создании).
//
// Разрешение картинки вопроса:
//   - NewUpload(i): uploaded[i]; индекс вне диапазона дает пустой путь
//     (нарушение целостности данных, не паника);
//   - ExistingPath(p): p как есть;
//   - Unspecified: картинка вопроса с тем же question_id из prev, иначе пусто.
func BuildQuizDocument(in DocumentInput, uploaded []string, prev *entity.QuizDocument) (entity.QuizDocument, error) {
	doc := entity.QuizDocument{
		IsQuestionRandomized: resolveFlag(in.IsQuestionRandomized, prev, func(d *entity.QuizDocument) bool { return d.IsQuestionRandomized }),
		IsAnswerRandomized:   resolveFlag(in.IsAnswerRandomized, prev, func(d *entity.QuizDocument) bool { return d.IsAnswerRandomized }),
	}

	theme, err := resolveTheme(in.Theme, prev)
	if err != nil {
		return entity.QuizDocument{}, err
	}
	doc.Theme = theme

	// Вопросы не присланы - прежний состав остается как есть
	if in.Questions == nil {
		if prev != nil {
			doc.Questions = prev.Questions
		}
		return doc, nil
	}

	if err := ValidateQuestionInputs(in.Questions); err != nil {
		return entity.QuizDocument{}, err
	}

	doc.Questions = make([]entity.Question, len(in.Questions))
	for i, q := range in.Questions {
		doc.Questions[i] = entity.Question{
			QuestionID:       q.QuestionID,
			QuestionText:     q.QuestionText,
			CorrectAnswerID:  q.CorrectAnswerID,
			Answers:          q.Answers,
			QuestionImageURL: resolveImage(q, uploaded, prev),
		}
	}

	return doc, nil
}

// resolveImage выбирает путь картинки вопроса по размеченному варианту
func resolveImage(q QuestionInput, uploaded []string, prev *entity.QuizDocument) string {
	switch q.Image.Kind {
	case ImageRefNewUpload:
		if q.Image.Index < 0 || q.Image.Index >= len(uploaded) {
			return ""
		}
		return uploaded[q.Image.Index]
	case ImageRefExistingPath:
		return q.Image.Path
	default:
		if prev != nil {
			if old := prev.FindQuestion(q.QuestionID); old != nil {
				return old.QuestionImageURL
			}
		}
		return ""
	}
}

// resolveFlag наследует неуказанный флаг из предыдущего документа, иначе false
func resolveFlag(v *bool, prev *entity.QuizDocument, get func(*entity.QuizDocument) bool) bool {
	if v != nil {
		return *v
	}
	if prev != nil {
		return get(prev)
	}
	return false
}

// resolveTheme наследует неуказанную тему и отклоняет неизвестные значения
func resolveTheme(v *string, prev *entity.QuizDocument) (string, error) {
	if v == nil {
		if prev != nil {
			return prev.Theme, nil
		}
		return "", nil
	}

	switch *v {
	case "", entity.ThemeAdventure, entity.ThemeFamily100, entity.ThemeOcean:
		return *v, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", apperrors.ErrValidation, *v)
	}
}
