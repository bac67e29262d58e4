package localfs

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Допустимые расширения загружаемых картинок
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// FileStore реализует repository.FileStore поверх локальной файловой системы.
// Пути, возвращаемые Upload, относительны baseDir и безопасны для хранения в БД.
type FileStore struct {
	baseDir string
}

// NewFileStore создает хранилище файлов в указанной директории
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию загрузок %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Upload сохраняет файл под префиксом и возвращает относительный путь.
// Имя файла генерируется заново, чтобы исключить коллизии и path traversal
// через имя, присланное клиентом.
func (s *FileStore) Upload(prefix string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("недопустимый формат файла: %s", ext)
	}

	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
	relPath := filepath.ToSlash(filepath.Join(filepath.Clean(prefix), filename))
	absPath := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать директорию для %s: %w", relPath, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("не удалось создать файл: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(absPath) // Удаляем частично записанный файл
		return "", fmt.Errorf("не удалось сохранить файл: %w", err)
	}

	return relPath, nil
}

// Remove удаляет файл по относительному пути.
// Отсутствующий файл не считается ошибкой - удаление best-effort.
func (s *FileStore) Remove(path string) error {
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("недопустимый путь файла: %s", path)
	}

	err := os.Remove(filepath.Join(s.baseDir, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// BaseDir возвращает корневую директорию хранилища (для отдачи статики)
func (s *FileStore) BaseDir() string {
	return s.baseDir
}
