package service

import (
	"math/rand"

	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// Фиксированные параметры презентации по умолчанию:
// плитки открываются каждые 0.23 секунды, всего 128 плиток, 30 секунд на вопрос
const (
	DefaultTimeLimitSeconds = 30
	DefaultTotalTiles       = 128
	DefaultRevealInterval   = 0.23
)

// PlayConfig - параметры клиентской презентации. Не выводятся из авторских
// данных, фиксированы на уровне развертывания.
type PlayConfig struct {
	TimeLimitSeconds int     `json:"time_limit_seconds"`
	TotalTiles       int     `json:"total_tiles"`
	RevealInterval   float64 `json:"reveal_interval"`
}

// DefaultPlayConfig возвращает конфигурацию презентации по умолчанию
func DefaultPlayConfig() PlayConfig {
	return PlayConfig{
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		TotalTiles:       DefaultTotalTiles,
		RevealInterval:   DefaultRevealInterval,
	}
}

// PlayQuestion - вопрос в безопасном для игрока виде: без correct_answer_id.
// Ключ ответа раскрывается только в деталях скоринга после отправки ответов.
type PlayQuestion struct {
	QuestionID       string          `json:"question_id"`
	QuestionText     string          `json:"question_text"`
	QuestionImageURL string          `json:"question_image_url"`
	Answers          []entity.Answer `json:"answers"`
}

// PlayView - проекция документа для игрока
type PlayView struct {
	TileConfig PlayConfig     `json:"tile_config"`
	Questions  []PlayQuestion `json:"questions"`
}

// ProjectPlayView строит проекцию документа для игры.
//
// Порядок вопросов перемешивается при is_question_randomized, порядок ответов
// каждого вопроса - независимо при is_answer_randomized; иначе сохраняется
// авторский порядок. Каждый вызов дает свежую перестановку (Фишер-Йетс на
// копии), исходный документ не мутируется. intn - инъецируемый источник
// случайности; nil означает math/rand.
func ProjectPlayView(doc *entity.QuizDocument, cfg PlayConfig, intn func(int) int) PlayView {
	if intn == nil {
		intn = rand.Intn
	}

	questions := make([]PlayQuestion, len(doc.Questions))
	for i, q := range doc.Questions {
		answers := q.Answers
		if doc.IsAnswerRandomized {
			answers = shuffled(answers, intn)
		} else {
			answers = append([]entity.Answer(nil), answers...)
		}
		questions[i] = PlayQuestion{
			QuestionID:       q.QuestionID,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			Answers:          answers,
		}
	}

	if doc.IsQuestionRandomized {
		questions = shuffled(questions, intn)
	}

	return PlayView{
		TileConfig: cfg,
		Questions:  questions,
	}
}

// shuffled возвращает перемешанную копию среза (Фишер-Йетс)
func shuffled[T any](src []T, intn func(int) int) []T {
	out := append([]T(nil), src...)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
