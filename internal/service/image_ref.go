package service

import (
	"encoding/json"
	"fmt"
)

// ImageRefKind определяет, чем является поле question_image_array_index
type ImageRefKind int

const (
	// ImageRefUnspecified - поле отсутствует: картинка берется из старого документа
	ImageRefUnspecified ImageRefKind = iota
	// ImageRefNewUpload - числовой индекс в массив загружаемых файлов
	ImageRefNewUpload
	// ImageRefExistingPath - строковый путь уже сохраненного файла
	ImageRefExistingPath
)

// ImageRef - размеченный вариант для поля question_image_array_index,
// которое на проводе может быть числом (индекс нового файла), строкой
// (путь старого файла) или отсутствовать вовсе.
type ImageRef struct {
	Kind  ImageRefKind
	Index int
	Path  string
}

// NewUploadRef создает ссылку на новый загружаемый файл
func NewUploadRef(index int) ImageRef {
	return ImageRef{Kind: ImageRefNewUpload, Index: index}
}

// ExistingPathRef создает ссылку на уже сохраненный файл
func ExistingPathRef(path string) ImageRef {
	return ImageRef{Kind: ImageRefExistingPath, Path: path}
}

// UnmarshalJSON декодирует union number | string | null.
// Отсутствующее поле остается нулевым значением (Unspecified).
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ImageRef{}
		return nil
	}

	var index int
	if err := json.Unmarshal(data, &index); err == nil {
		*r = NewUploadRef(index)
		return nil
	}

	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*r = ExistingPathRef(path)
		return nil
	}

	return fmt.Errorf("question_image_array_index must be a number or a string, got %s", data)
}

// MarshalJSON кодирует вариант обратно в union-представление
func (r ImageRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ImageRefNewUpload:
		return json.Marshal(r.Index)
	case ImageRefExistingPath:
		return json.Marshal(r.Path)
	default:
		return []byte("null"), nil
	}
}
