// Package metadata читает теги и длительность скачанных MP3 файлов
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// UnknownArtist подставляется, если исполнителя не удалось определить
const UnknownArtist = "Unknown Artist"

// Tags теги трека
type Tags struct {
	Artist string
	Title  string
	Album  string
}

// Label строка для отображения в списке
func (t Tags) Label() string {
	if t.Artist == "" || t.Artist == UnknownArtist {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Info теги и параметры файла
type Info struct {
	Tags
	Size     int64
	Duration time.Duration // 0, если файл не удалось декодировать
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// TagsFromReader читает ID3 теги. Недостающие поля берутся из имени source.
func (e *Extractor) TagsFromReader(reader io.ReadSeeker, source string) Tags {
	fallback := tagsFromName(source)

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return fallback
	}
	m, err := tag.ReadFrom(reader)
	if err != nil {
		return fallback
	}

	tags := Tags{
		Artist: strings.TrimSpace(m.Artist()),
		Title:  strings.TrimSpace(m.Title()),
		Album:  strings.TrimSpace(m.Album()),
	}
	if tags.Title == "" {
		tags.Title = fallback.Title
	}
	if tags.Artist == "" {
		tags.Artist = fallback.Artist
	}
	return tags
}

// TagsFromFile читает теги файла
func (e *Extractor) TagsFromFile(filePath string) Tags {
	file, err := os.Open(filePath)
	if err != nil {
		return tagsFromName(filePath)
	}
	defer file.Close()

	return e.TagsFromReader(file, filePath)
}

// Duration декодирует заголовок MP3 и возвращает длительность
func (e *Extractor) Duration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// Read собирает теги, размер и длительность.
// Ошибка возвращается только если файл недоступен.
func (e *Extractor) Read(filePath string) (Info, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return Info{}, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	info := Info{
		Tags: e.TagsFromFile(filePath),
		Size: stat.Size(),
	}
	if d, err := e.Duration(filePath); err == nil {
		info.Duration = d
	}
	return info, nil
}

// tagsFromName разбирает имя файла вида "Artist - Title"
func tagsFromName(source string) Tags {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return SplitTitle(name)
}

// SplitTitle разбирает название вида "Artist - Title"
func SplitTitle(name string) Tags {
	name = strings.TrimSpace(name)
	if artist, title, ok := strings.Cut(name, " - "); ok {
		return Tags{
			Artist: strings.TrimSpace(artist),
			Title:  strings.TrimSpace(title),
		}
	}
	return Tags{Artist: UnknownArtist, Title: name}
}
