package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	"github.com/yourusername/imagequiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
	"github.com/yourusername/imagequiz-api/internal/service"
)

// ImageQuizHandler обрабатывает запросы, связанные с играми "image quiz"
type ImageQuizHandler struct {
	quizService *service.ImageQuizService
}

// NewImageQuizHandler создает новый обработчик игр
func NewImageQuizHandler(quizService *service.ImageQuizService) *ImageQuizHandler {
	return &ImageQuizHandler{quizService: quizService}
}

// CreateGame обрабатывает запрос на создание игры.
// POST /api/games/image-quiz (multipart/form-data)
//
// Поля формы: name, description, is_publish_immediately, is_question_randomized,
// is_answer_randomized, theme, questions (JSON-массив вопросов).
// Файлы: thumbnail_image (один), files_to_upload (много; порядок значим,
// индексы question_image_array_index адресуют именно его).
func (h *ImageQuizHandler) CreateGame(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}

	name := formValue(form, "name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	questions, err := parseQuestions(formValue(form, "questions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if questions == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questions are required"})
		return
	}

	input := service.CreateImageQuizInput{
		Name:                 name,
		Description:          formValue(form, "description"),
		IsPublishImmediately: formBool(form, "is_publish_immediately"),
		IsQuestionRandomized: formBool(form, "is_question_randomized"),
		IsAnswerRandomized:   formBool(form, "is_answer_randomized"),
		Theme:                formValue(form, "theme"),
		Questions:            questions,
		ThumbnailImage:       formFile(form, "thumbnail_image"),
		FilesToUpload:        form.File["files_to_upload"],
	}

	game, err := h.quizService.Create(input, c.MustGet("user_id").(uint))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGameResponse(game))
}

// ListMyGames возвращает игры текущего пользователя с пагинацией.
// GET /api/games/image-quiz?page=1&per_page=10
func (h *ImageQuizHandler) ListMyGames(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	games, total, err := h.quizService.ListByCreator(c.MustGet("user_id").(uint), page, perPage)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameListResponse(games, total, page, perPage))
}

// GetGame возвращает полную запись игры (с ключами ответов).
// GET /api/games/image-quiz/:game_id
func (h *ImageQuizHandler) GetGame(c *gin.Context) {
	game, err := h.quizService.GetDetail(c.MustGet("gameID").(string), c.MustGet("user_id").(uint), c.GetString("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

// UpdateGame обрабатывает частичное обновление игры.
// PATCH /api/games/image-quiz/:game_id (multipart/form-data)
//
// Поля формы те же, что при создании (is_publish вместо
// is_publish_immediately); отсутствующее поле сохраняет прежнее значение.
func (h *ImageQuizHandler) UpdateGame(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}

	questions, err := parseQuestions(formValue(form, "questions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateImageQuizInput{
		Name:                 formValuePtr(form, "name"),
		Description:          formValuePtr(form, "description"),
		IsPublish:            formBoolPtr(form, "is_publish"),
		IsQuestionRandomized: formBoolPtr(form, "is_question_randomized"),
		IsAnswerRandomized:   formBoolPtr(form, "is_answer_randomized"),
		Theme:                formValuePtr(form, "theme"),
		Questions:            questions,
		ThumbnailImage:       formFile(form, "thumbnail_image"),
		FilesToUpload:        form.File["files_to_upload"],
	}

	game, err := h.quizService.Update(input, c.MustGet("gameID").(string), c.MustGet("user_id").(uint), c.GetString("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

// DeleteGame удаляет игру вместе с ее файлами.
// DELETE /api/games/image-quiz/:game_id
func (h *ImageQuizHandler) DeleteGame(c *gin.Context) {
	err := h.quizService.Delete(c.MustGet("gameID").(string), c.MustGet("user_id").(uint), c.GetString("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

// PlayPublic возвращает публичную игровую проекцию опубликованной игры.
// GET /api/games/image-quiz/:game_id/play/public
func (h *ImageQuizHandler) PlayPublic(c *gin.Context) {
	view, err := h.quizService.GetPlayView(c.MustGet("gameID").(string), true, 0, "")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// PlayPrivate возвращает игровую проекцию для создателя (включая черновики).
// GET /api/games/image-quiz/:game_id/play/private
func (h *ImageQuizHandler) PlayPrivate(c *gin.Context) {
	view, err := h.quizService.GetPlayView(c.MustGet("gameID").(string), false, c.MustGet("user_id").(uint), c.GetString("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CheckAnswerRequest представляет пачку ответов игрока
type CheckAnswerRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required,min=1,dive"`
}

// CheckAnswer проверяет пачку ответов и возвращает результат с раскрытием
// правильных ответов. Авторизация не требуется; при валидном токене
// пользователю начисляется статистика.
// POST /api/games/image-quiz/:game_id/check
func (h *ImageQuizHandler) CheckAnswer(c *gin.Context) {
	var req CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// user_id присутствует только при валидном токене (OptionalAuth)
	var userID *uint
	if v, exists := c.Get("user_id"); exists {
		id := v.(uint)
		userID = &id
	}

	result, err := h.quizService.CheckAnswer(c.MustGet("gameID").(string), req.Answers, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportQuestions экспортирует вопросы игры в CSV или Excel формате.
// GET /api/games/image-quiz/:game_id/export?format=csv|xlsx
func (h *ImageQuizHandler) ExportQuestions(c *gin.Context) {
	game, err := h.quizService.GetDetail(c.MustGet("gameID").(string), c.MustGet("user_id").(uint), c.GetString("role"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("game_%s_questions_%s", game.ID, time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.exportXLSX(c, game, filename)
	default:
		h.exportCSV(c, game, filename)
	}
}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *ImageQuizHandler) exportCSV(c *gin.Context, game *entity.Game, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"№", "Вопрос", "Картинка", "Варианты", "Правильный ответ"})

	for i, q := range game.GameJSON.Questions {
		writer.Write([]string{
			strconv.Itoa(i + 1),
			sanitizeForExcel(q.QuestionText),
			q.QuestionImageURL,
			sanitizeForExcel(joinAnswerTexts(q.Answers)),
			sanitizeForExcel(correctAnswerText(q)),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *ImageQuizHandler) exportXLSX(c *gin.Context, game *entity.Game, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Вопросы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ImageQuizHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"№", "Вопрос", "Картинка", "Варианты", "Правильный ответ"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ImageQuizHandler] Ошибка записи заголовков: %v", err)
	}

	for i, q := range game.GameJSON.Questions {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			i + 1,
			sanitizeForExcel(q.QuestionText),
			q.QuestionImageURL,
			sanitizeForExcel(joinAnswerTexts(q.Answers)),
			sanitizeForExcel(correctAnswerText(q)),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ImageQuizHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ImageQuizHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ImageQuizHandler] Ошибка записи Excel в response: %v", err)
	}
}

// handleError преобразует ошибки сервисов в HTTP-статусы
func (h *ImageQuizHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ImageQuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseQuestions декодирует поле questions (JSON-массив).
// Пустая строка означает "не прислано" и дает nil без ошибки.
func parseQuestions(raw string) ([]service.QuestionInput, error) {
	if raw == "" {
		return nil, nil
	}
	var questions []service.QuestionInput
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("invalid questions JSON: %w", err)
	}
	return questions, nil
}

// joinAnswerTexts склеивает тексты вариантов для экспорта
func joinAnswerTexts(answers []entity.Answer) string {
	out := ""
	for i, a := range answers {
		if i > 0 {
			out += "; "
		}
		out += a.AnswerText
	}
	return out
}

// correctAnswerText возвращает текст правильного варианта
func correctAnswerText(q entity.Question) string {
	for _, a := range q.Answers {
		if a.AnswerID == q.CorrectAnswerID {
			return a.AnswerText
		}
	}
	return ""
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// formValue возвращает первое значение поля формы или пустую строку
func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// formValuePtr различает отсутствующее поле (nil) и присланное пустое
func formValuePtr(form *multipart.Form, key string) *string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

// formBool трактует поле формы как булево ("true", "1")
func formBool(form *multipart.Form, key string) bool {
	v, _ := strconv.ParseBool(formValue(form, key))
	return v
}

// formBoolPtr различает отсутствующее булево поле и присланное
func formBoolPtr(form *multipart.Form, key string) *bool {
	raw := formValuePtr(form, key)
	if raw == nil {
		return nil
	}
	v, _ := strconv.ParseBool(*raw)
	return &v
}

// formFile возвращает первый файл поля формы или nil
func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files, ok := form.File[key]; ok && len(files) > 0 {
		return files[0]
	}
	return nil
}
