package repository

import (
	"mime/multipart"
)

// FileStore определяет методы для работы с бинарным хранилищем файлов.
// Upload сохраняет файл под префиксом и возвращает относительный путь,
// по которому файл можно удалить или отдать клиенту.
// Remove удаляет файл по пути; отсутствие файла не считается ошибкой.
type FileStore interface {
	Upload(prefix string, file *multipart.FileHeader) (string, error)
	Remove(path string) error
}
