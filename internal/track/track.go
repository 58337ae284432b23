// Package track содержит модель трека и плейлист в памяти
package track

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Track ссылка на скачанный локальный аудиофайл. После создания не изменяется.
type Track struct {
	ID   string
	Path string
}

// New создает трек для файла с новым уникальным ID
func New(path string) Track {
	return Track{
		ID:   uuid.NewString(),
		Path: path,
	}
}

// DisplayName возвращает имя трека для отображения (базовое имя файла)
func (t Track) DisplayName() string {
	return filepath.Base(t.Path)
}
