package metadata

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// Writer записывает ID3v2 теги в скачанные файлы
type Writer struct{}

// NewWriter создает новый Writer
func NewWriter() *Writer {
	return &Writer{}
}

// Tag записывает исполнителя и название, разобранные из названия источника.
// Неизвестный исполнитель не записывается.
func (w *Writer) Tag(path, sourceTitle string) error {
	tags := SplitTitle(sourceTitle)
	if tags.Title == "" {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("ошибка чтения тегов: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.Title)
	if tags.Artist != UnknownArtist {
		tag.SetArtist(tags.Artist)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("ошибка сохранения тегов: %w", err)
	}
	return nil
}
