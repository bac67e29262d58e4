package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Темы оформления игры
const (
	ThemeAdventure = "adventure"
	ThemeFamily100 = "family100"
	ThemeOcean     = "ocean"
)

// Ограничения на содержимое документа
const (
	MinAnswersPerQuestion = 3
	MaxAnswersPerQuestion = 6
	MinQuestionsPerQuiz   = 1
	MaxQuestionsPerQuiz   = 20
)

// Answer представляет один вариант ответа внутри вопроса
type Answer struct {
	AnswerID   string `json:"answer_id"`
	AnswerText string `json:"answer_text"`
}

// Question представляет вопрос с картинкой и вариантами ответов
type Question struct {
	QuestionID       string   `json:"question_id"`
	QuestionText     string   `json:"question_text"`
	QuestionImageURL string   `json:"question_image_url"`
	CorrectAnswerID  string   `json:"correct_answer_id"`
	Answers          []Answer `json:"answers"`
}

// HasAnswer проверяет, есть ли среди вариантов ответ с данным ID
func (q *Question) HasAnswer(answerID string) bool {
	for _, a := range q.Answers {
		if a.AnswerID == answerID {
			return true
		}
	}
	return false
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedAnswerID string) bool {
	return selectedAnswerID == q.CorrectAnswerID
}

// QuizDocument - канонический документ игры, хранится в JSONB колонке game_json.
// Движок работает только с типизированным значением; для остальной системы
// содержимое колонки непрозрачно.
type QuizDocument struct {
	Questions            []Question `json:"questions"`
	IsQuestionRandomized bool       `json:"is_question_randomized"`
	IsAnswerRandomized   bool       `json:"is_answer_randomized"`
	Theme                string     `json:"theme,omitempty"`
}

// Scan реализует интерфейс sql.Scanner для QuizDocument
// Используется GORM для чтения JSONB данных из базы
func (d *QuizDocument) Scan(value interface{}) error {
	if value == nil {
		*d = QuizDocument{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*d = QuizDocument{}
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Value реализует интерфейс driver.Valuer для QuizDocument
// Используется GORM для записи документа в JSONB в базе
func (d QuizDocument) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// FindQuestion возвращает вопрос по его ID или nil, если такого вопроса нет
func (d *QuizDocument) FindQuestion(questionID string) *Question {
	for i := range d.Questions {
		if d.Questions[i].QuestionID == questionID {
			return &d.Questions[i]
		}
	}
	return nil
}

// ImagePaths возвращает пути всех картинок вопросов (пустые пропускаются)
func (d *QuizDocument) ImagePaths() []string {
	paths := make([]string, 0, len(d.Questions))
	for _, q := range d.Questions {
		if q.QuestionImageURL != "" {
			paths = append(paths, q.QuestionImageURL)
		}
	}
	return paths
}
