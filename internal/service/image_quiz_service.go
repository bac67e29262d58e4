package service

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/imagequiz-api/internal/domain/entity"
	"github.com/yourusername/imagequiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/imagequiz-api/internal/pkg/errors"
)

// Кеширование ID шаблона по слагу: шаблоны фактически неизменяемы
const (
	templateCacheKeyPrefix = "game_template:"
	templateCacheTTL       = 12 * time.Hour
)

// ImageQuizService - оркестратор жизненного цикла игры "image quiz":
// композирует билдер документа, проектор, скоринг и сверку файлов с
// внешними коллабораторами (БД, файловое хранилище, кеш).
type ImageQuizService struct {
	gameRepo     repository.GameRepository
	templateRepo repository.GameTemplateRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
	fileStore    repository.FileStore

	playConfig PlayConfig
	scoreBands []ScoreBand

	// Инъецируемые источники: в тестах подменяются детерминированными
	newID func() string
	intn  func(int) int
}

// NewImageQuizService создает новый сервис игр "image quiz"
func NewImageQuizService(
	gameRepo repository.GameRepository,
	templateRepo repository.GameTemplateRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	fileStore repository.FileStore,
	playConfig PlayConfig,
) *ImageQuizService {
	return &ImageQuizService{
		gameRepo:     gameRepo,
		templateRepo: templateRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		fileStore:    fileStore,
		playConfig:   playConfig,
		scoreBands:   DefaultScoreBands(playConfig.TimeLimitSeconds),
		newID:        uuid.NewString,
		intn:         nil, // nil = math/rand в проекторе
	}
}

// CreateImageQuizInput - входные данные создания игры
type CreateImageQuizInput struct {
	Name                 string
	Description          string
	IsPublishImmediately bool
	IsQuestionRandomized bool
	IsAnswerRandomized   bool
	Theme                string
	Questions            []QuestionInput
	ThumbnailImage       *multipart.FileHeader
	FilesToUpload        []*multipart.FileHeader
}

// UpdateImageQuizInput - входные данные обновления игры.
// nil-поля не изменяют сохраненные значения.
type UpdateImageQuizInput struct {
	Name                 *string
	Description          *string
	IsPublish            *bool
	IsQuestionRandomized *bool
	IsAnswerRandomized   *bool
	Theme                *string
	Questions            []QuestionInput // nil = оставить прежние вопросы
	ThumbnailImage       *multipart.FileHeader
	FilesToUpload        []*multipart.FileHeader
}

// PlayGameView - проекция игры для игрока вместе с метаданными записи
type PlayGameView struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	ThumbnailImage string         `json:"thumbnail_image"`
	TileConfig     PlayConfig     `json:"tile_config"`
	Questions      []PlayQuestion `json:"questions"`
}

// Create создает игру: валидирует вопросы, загружает файлы, строит документ
// и сохраняет запись. Возвращает созданную запись.
//
// Файлы загружаются до сохранения записи; упавшее сохранение оставляет
// осиротевшие файлы - это утечка, а не нарушение корректности.
func (s *ImageQuizService) Create(input CreateImageQuizInput, creatorID uint) (*entity.Game, error) {
	// Проверка уникальности имени до каких-либо загрузок
	if _, err := s.gameRepo.GetByName(input.Name); err == nil {
		return nil, fmt.Errorf("%w: game name %q already exists", apperrors.ErrConflict, input.Name)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check game name: %w", err)
	}

	if err := ValidateQuestionInputs(input.Questions); err != nil {
		return nil, err
	}

	templateID, err := s.templateIDBySlug(entity.ImageQuizSlug)
	if err != nil {
		return nil, err
	}

	gameID := s.newID()
	prefix := uploadPrefix(gameID)

	thumbnailPath := ""
	if input.ThumbnailImage != nil {
		thumbnailPath, err = s.fileStore.Upload(prefix, input.ThumbnailImage)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
	}

	uploaded, err := s.uploadAll(prefix, input.FilesToUpload)
	if err != nil {
		return nil, err
	}

	doc, err := BuildQuizDocument(DocumentInput{
		Questions:            input.Questions,
		IsQuestionRandomized: &input.IsQuestionRandomized,
		IsAnswerRandomized:   &input.IsAnswerRandomized,
		Theme:                optionalString(input.Theme),
	}, uploaded, nil)
	if err != nil {
		return nil, err
	}

	game := &entity.Game{
		ID:             gameID,
		Name:           input.Name,
		Description:    input.Description,
		ThumbnailImage: thumbnailPath,
		IsPublished:    input.IsPublishImmediately,
		CreatorID:      creatorID,
		GameTemplateID: templateID,
		GameJSON:       doc,
	}

	if err := s.gameRepo.Create(game); err != nil {
		return nil, err
	}

	return game, nil
}

// GetDetail возвращает полную запись игры (включая ключи ответов) для
// создателя или супер-админа
func (s *ImageQuizService) GetDetail(gameID string, userID uint, role string) (*entity.Game, error) {
	game, err := s.getImageQuiz(gameID)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(game, userID, role); err != nil {
		return nil, err
	}

	return game, nil
}

// GetPlayView возвращает безопасную для игрока проекцию игры.
// Публичный доступ требует опубликованности (неопубликованная игра
// неотличима от отсутствующей); приватный - прав создателя или супер-админа.
func (s *ImageQuizService) GetPlayView(gameID string, isPublic bool, userID uint, role string) (*PlayGameView, error) {
	game, err := s.getImageQuiz(gameID)
	if err != nil {
		return nil, err
	}

	if isPublic && !game.IsPublished {
		return nil, fmt.Errorf("%w: game not found or private", apperrors.ErrNotFound)
	}
	if !isPublic {
		if err := authorizeOwner(game, userID, role); err != nil {
			return nil, err
		}
	}

	view := ProjectPlayView(&game.GameJSON, s.playConfig, s.intn)

	return &PlayGameView{
		ID:             game.ID,
		Name:           game.Name,
		Description:    game.Description,
		ThumbnailImage: game.ThumbnailImage,
		TileConfig:     view.TileConfig,
		Questions:      view.Questions,
	}, nil
}

// Update полностью заменяет документ игры с сохранением не присланных полей.
//
// Порядок шагов фиксирован: новые файлы загружаются до пересборки документа,
// запись сохраняется до удаления старых файлов. Падение между коммитом и
// очисткой оставляет осиротевшие файлы, но никогда - висячие ссылки.
func (s *ImageQuizService) Update(input UpdateImageQuizInput, gameID string, userID uint, role string) (*entity.Game, error) {
	game, err := s.getImageQuiz(gameID)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(game, userID, role); err != nil {
		return nil, err
	}

	if input.Questions != nil {
		if err := ValidateQuestionInputs(input.Questions); err != nil {
			return nil, err
		}
	}

	oldPaths := game.AssetPaths()
	prefix := uploadPrefix(game.ID)

	if input.ThumbnailImage != nil {
		newThumbnail, err := s.fileStore.Upload(prefix, input.ThumbnailImage)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		game.ThumbnailImage = newThumbnail
	}

	uploaded, err := s.uploadAll(prefix, input.FilesToUpload)
	if err != nil {
		return nil, err
	}

	prevDoc := game.GameJSON
	doc, err := BuildQuizDocument(DocumentInput{
		Questions:            input.Questions,
		IsQuestionRandomized: input.IsQuestionRandomized,
		IsAnswerRandomized:   input.IsAnswerRandomized,
		Theme:                input.Theme,
	}, uploaded, &prevDoc)
	if err != nil {
		return nil, err
	}
	game.GameJSON = doc

	if input.Name != nil {
		game.Name = *input.Name
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.IsPublish != nil {
		game.IsPublished = *input.IsPublish
	}

	if err := s.gameRepo.Update(game); err != nil {
		return nil, err
	}

	// Очистка после коммита: путь из нового набора не удаляется никогда,
	// отдельные сбои удаления не прерывают сверку
	s.removeAll(ReconcileAssets(oldPaths, game.AssetPaths()))

	return game, nil
}

// Delete удаляет игру и все файлы, на которые ссылалась запись.
// Запись удаляется из БД первой; файлы убираются best-effort после.
func (s *ImageQuizService) Delete(gameID string, userID uint, role string) error {
	game, err := s.getImageQuiz(gameID)
	if err != nil {
		return err
	}

	if err := authorizeOwner(game, userID, role); err != nil {
		return err
	}

	paths := game.AssetPaths()

	if err := s.gameRepo.Delete(game.ID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	s.removeAll(paths)
	return nil
}

// CheckAnswer проверяет пачку ответов игрока и возвращает результат.
// Авторизации нет - достаточно существования игры. После успешного скоринга
// best-effort инкрементируются счетчик запусков игры и статистика игрока.
func (s *ImageQuizService) CheckAnswer(gameID string, subs []AnswerSubmission, userID *uint) (*ScoreResult, error) {
	game, err := s.getImageQuiz(gameID)
	if err != nil {
		return nil, err
	}

	result := ScoreSubmissions(&game.GameJSON, subs, s.scoreBands)

	if err := s.gameRepo.IncrementPlayCount(game.ID); err != nil {
		log.Printf("[ImageQuizService] Не удалось увеличить total_played игры %s: %v", game.ID, err)
	}
	if userID != nil {
		if err := s.userRepo.IncrementGamesPlayed(*userID); err != nil {
			log.Printf("[ImageQuizService] Не удалось увеличить games_played пользователя %d: %v", *userID, err)
		}
		if result.TotalScore > 0 {
			if err := s.userRepo.AddScore(*userID, int64(result.TotalScore)); err != nil {
				log.Printf("[ImageQuizService] Не удалось добавить очки пользователю %d: %v", *userID, err)
			}
		}
	}

	return &result, nil
}

// ListByCreator возвращает игры пользователя с пагинацией
func (s *ImageQuizService) ListByCreator(creatorID uint, page, pageSize int) ([]entity.Game, int64, error) {
	offset := (page - 1) * pageSize
	return s.gameRepo.ListByCreator(creatorID, pageSize, offset)
}

// getImageQuiz возвращает игру по ID, убеждаясь что это именно image quiz.
// Игра другого типа неотличима от отсутствующей.
func (s *ImageQuizService) getImageQuiz(gameID string) (*entity.Game, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	if game.GameTemplate == nil || game.GameTemplate.Slug != entity.ImageQuizSlug {
		return nil, fmt.Errorf("%w: game not found", apperrors.ErrNotFound)
	}
	return game, nil
}

// templateIDBySlug возвращает ID шаблона игры, кешируя его в Redis
func (s *ImageQuizService) templateIDBySlug(slug string) (uint, error) {
	cacheKey := templateCacheKeyPrefix + slug

	var cached uint
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil && cached != 0 {
		return cached, nil
	}

	template, err := s.templateRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("%w: template %q not found", apperrors.ErrNotFound, slug)
		}
		return 0, err
	}

	if err := s.cacheRepo.SetJSON(cacheKey, template.ID, templateCacheTTL); err != nil {
		log.Printf("[ImageQuizService] Не удалось закешировать шаблон %q: %v", slug, err)
	}

	return template.ID, nil
}

// uploadAll последовательно загружает файлы, сохраняя порядок:
// индексы question_image_array_index адресуют именно этот порядок
func (s *ImageQuizService) uploadAll(prefix string, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for i, file := range files {
		path, err := s.fileStore.Upload(prefix, file)
		if err != nil {
			return nil, fmt.Errorf("failed to upload file %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// removeAll удаляет файлы best-effort: сбой одного удаления не прерывает остальные
func (s *ImageQuizService) removeAll(paths []string) {
	for _, path := range paths {
		if err := s.fileStore.Remove(path); err != nil {
			log.Printf("[ImageQuizService] Не удалось удалить файл %s: %v", path, err)
		}
	}
}

// authorizeOwner пропускает создателя игры и супер-админа
func authorizeOwner(game *entity.Game, userID uint, role string) error {
	if role != entity.RoleSuperAdmin && !game.IsOwnedBy(userID) {
		return fmt.Errorf("%w: user cannot access this game", apperrors.ErrForbidden)
	}
	return nil
}

// uploadPrefix возвращает префикс хранения файлов игры
func uploadPrefix(gameID string) string {
	return fmt.Sprintf("game/%s/%s", entity.ImageQuizSlug, gameID)
}

// optionalString оборачивает непустую строку в указатель
func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
