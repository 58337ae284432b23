package streaming

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/hazadus/go-jukebox/internal/source"
)

// audioExtensions расширения файлов, которые считаются прямой ссылкой на аудио
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".flac": true,
	".webm": true,
}

// Resolver скачивает аудиофайл по прямой HTTP ссылке
type Resolver struct {
	client *http.Client
}

// NewResolver создает резолвер прямых ссылок
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = NewClient()
	}
	return &Resolver{client: client}
}

// Match сообщает, является ли URL прямой HTTP ссылкой на аудиофайл
func (r *Resolver) Match(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	return audioExtensions[strings.ToLower(path.Ext(u.Path))]
}

// Resolve открывает соединение, чтобы недоступный источник обнаружился на этапе поиска
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (source.Stream, error) {
	reader, err := NewReader(ctx, r.client, rawURL, DefaultBufferSize)
	if err != nil {
		return nil, err
	}

	contentType := reader.ContentType()
	if contentType != "" && !strings.HasPrefix(contentType, "audio/") &&
		!strings.HasPrefix(contentType, "video/") &&
		!strings.Contains(contentType, "application/octet-stream") {
		log.Printf("неожиданный Content-Type %q для %s", contentType, rawURL)
	}

	return &stream{title: TitleFromURL(rawURL), reader: reader}, nil
}

// stream отдает уже открытый ответ один раз
type stream struct {
	title  string
	once   sync.Once
	reader *Reader
}

func (s *stream) Title() string {
	return s.title
}

func (s *stream) Open(context.Context) (io.ReadCloser, error) {
	var rc io.ReadCloser
	s.once.Do(func() {
		rc = s.reader
	})
	if rc == nil {
		return nil, errors.New("поток уже прочитан")
	}
	return rc, nil
}

// TitleFromURL формирует название из имени файла в URL, а при его отсутствии из домена
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "online_track"
	}

	name := path.Base(u.Path)
	if name != "" && name != "/" && name != "." {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
		return strings.TrimSuffix(name, path.Ext(name))
	}
	if u.Host != "" {
		return u.Host
	}
	return "online_track"
}
