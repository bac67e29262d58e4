package service

import (
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
)

// MinScore - очки за правильный ответ на пределе лимита времени и дольше
const MinScore = 1

// ScoreBand - временная полоса скоринга: любой правильный ответ быстрее
// UpperBoundSeconds (не включительно) приносит Score очков, если не попал
// в более раннюю полосу. Полосы упорядочены по возрастанию границы и
// покрывают [0, лимит); всё, что дольше последней границы, дает MinScore.
type ScoreBand struct {
	UpperBoundSeconds float64
	Score             int
}

// DefaultScoreBands возвращает полосы по умолчанию для заданного лимита
// времени: <10с - 4, <20с - 3, <лимит - 2, дальше MinScore
func DefaultScoreBands(timeLimitSeconds int) []ScoreBand {
	return []ScoreBand{
		{UpperBoundSeconds: 10, Score: 4},
		{UpperBoundSeconds: 20, Score: 3},
		{UpperBoundSeconds: float64(timeLimitSeconds), Score: 2},
	}
}

// AnswerSubmission - один присланный ответ игрока. Не персистится,
// потребляется скорингом ровно один раз.
type AnswerSubmission struct {
	QuestionID       string  `json:"question_id" binding:"required"`
	SelectedAnswerID string  `json:"selected_answer_id" binding:"required"`
	TimeSpentMs      float64 `json:"time_spent_ms" binding:"min=0"`
}

// AnswerDetail - результат проверки одного ответа.
// CorrectAnswerID раскрывается только здесь, после отправки ответов.
type AnswerDetail struct {
	QuestionID      string `json:"question_id"`
	IsCorrect       bool   `json:"is_correct"`
	Score           int    `json:"score"`
	CorrectAnswerID string `json:"correct_answer_id,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ScoreResult - агрегированный результат проверки пачки ответов
type ScoreResult struct {
	TotalQuestions int            `json:"total_questions"`
	TotalAnswered  int            `json:"total_answered"`
	CorrectCount   int            `json:"correct_count"`
	TotalScore     int            `json:"total_score"`
	Details        []AnswerDetail `json:"details"`
}

// ScoreSubmissions проверяет пачку ответов против канонического документа.
//
// Неизвестный question_id не прерывает проверку остальной пачки: такой ответ
// фиксируется строкой деталей с ошибкой и не участвует в correct_count и
// total_score. Неправильный ответ всегда дает 0 независимо от времени.
// Правильный ответ оценивается по временным полосам: быстрее - не меньше.
// Детали идут в порядке присылки, не в порядке документа.
func ScoreSubmissions(doc *entity.QuizDocument, subs []AnswerSubmission, bands []ScoreBand) ScoreResult {
	result := ScoreResult{
		TotalQuestions: len(doc.Questions),
		TotalAnswered:  len(subs),
		Details:        make([]AnswerDetail, 0, len(subs)),
	}

	for _, sub := range subs {
		question := doc.FindQuestion(sub.QuestionID)
		if question == nil {
			result.Details = append(result.Details, AnswerDetail{
				QuestionID: sub.QuestionID,
				IsCorrect:  false,
				Score:      0,
				Error:      "question not found",
			})
			continue
		}

		isCorrect := question.IsCorrect(sub.SelectedAnswerID)
		scoreGained := 0
		if isCorrect {
			result.CorrectCount++
			scoreGained = scoreForTime(sub.TimeSpentMs/1000, bands)
		}
		result.TotalScore += scoreGained

		result.Details = append(result.Details, AnswerDetail{
			QuestionID:      sub.QuestionID,
			IsCorrect:       isCorrect,
			Score:           scoreGained,
			CorrectAnswerID: question.CorrectAnswerID,
		})
	}

	return result
}

// scoreForTime отображает затраченное время в очки по упорядоченным полосам
func scoreForTime(seconds float64, bands []ScoreBand) int {
	for _, band := range bands {
		if seconds < band.UpperBoundSeconds {
			return band.Score
		}
	}
	return MinScore
}
