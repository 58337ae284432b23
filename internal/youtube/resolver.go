// Package youtube находит аудиопотоки YouTube видео
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/hazadus/go-jukebox/internal/source"
)

// ErrNoAudio у видео нет аудиоформатов
var ErrNoAudio = errors.New("аудио формат не найден")

// Паттерны для различных форматов YouTube URL
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/(?:embed|v|shorts)/)([a-zA-Z0-9_-]{11})`),
}

var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Resolver находит лучший аудиопоток YouTube видео
type Resolver struct {
	client *youtube.Client
}

// NewResolver создает резолвер с клиентом по умолчанию
func NewResolver() *Resolver {
	return &Resolver{client: &youtube.Client{}}
}

// Match сообщает, содержит ли URL идентификатор видео
func (r *Resolver) Match(url string) bool {
	_, err := ExtractVideoID(url)
	return err == nil
}

// Resolve получает информацию о видео и выбирает аудиоформат
func (r *Resolver) Resolve(ctx context.Context, url string) (source.Stream, error) {
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return nil, err
	}

	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о видео: %w", err)
	}

	format := FindBestAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAudio, videoID)
	}

	return &stream{
		client: r.client,
		video:  video,
		format: format,
	}, nil
}

// stream аудиоформат конкретного видео
type stream struct {
	client *youtube.Client
	video  *youtube.Video
	format *youtube.Format
}

func (s *stream) Title() string {
	return s.video.Title
}

func (s *stream) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, _, err := s.client.GetStreamContext(ctx, s.video, s.format)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения потока: %w", err)
	}
	return rc, nil
}

// ExtractVideoID извлекает ID видео из различных форматов YouTube URL
func ExtractVideoID(url string) (string, error) {
	for _, re := range videoIDPatterns {
		matches := re.FindStringSubmatch(url)
		if len(matches) > 1 {
			return matches[1], nil
		}
	}

	// Если это просто ID видео (11 символов)
	if bareVideoID.MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("не удалось извлечь ID видео из URL: %s", url)
}

// FindBestAudioFormat находит лучший аудио формат для скачивания
func FindBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	// Сначала ищем форматы только с аудио
	var audioOnly []*youtube.Format
	for i := range formats {
		if strings.HasPrefix(formats[i].MimeType, "audio/") {
			audioOnly = append(audioOnly, &formats[i])
		}
	}

	if len(audioOnly) == 0 {
		// Если нет только аудио форматов, берем видео со звуком
		for i := range formats {
			if formats[i].AudioChannels > 0 {
				return &formats[i]
			}
		}
		return nil
	}

	best := audioOnly[0]
	for _, format := range audioOnly[1:] {
		if better(format, best) {
			best = format
		}
	}
	return best
}

// better предпочитает MP4/M4A контейнер, затем больший битрейт
func better(a, b *youtube.Format) bool {
	aMP4, bMP4 := isMP4(a), isMP4(b)
	if aMP4 != bMP4 {
		return aMP4
	}
	return a.Bitrate > b.Bitrate
}

func isMP4(f *youtube.Format) bool {
	return strings.Contains(f.MimeType, "mp4") || strings.Contains(f.MimeType, "m4a")
}
