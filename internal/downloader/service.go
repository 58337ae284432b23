// Package downloader скачивает аудио по URL и конвертирует его в MP3 в фоновых горутинах
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/hazadus/go-jukebox/internal/source"
	"github.com/hazadus/go-jukebox/internal/utils"
)

var (
	// ErrValidation пустой URL, работа не начиналась
	ErrValidation = errors.New("не указан URL")
	// ErrResolution источник недоступен или в нем нет аудиопотока
	ErrResolution = errors.New("не удалось найти аудиопоток")
	// ErrTransfer ошибка сети или записи при скачивании
	ErrTransfer = errors.New("ошибка скачивания")
	// ErrTranscode ffmpeg недоступен или завершился с ошибкой
	ErrTranscode = errors.New("ошибка конвертации")
)

// Имена файлов в директории загрузок
const (
	tempFilePrefix = "temp-"
	outputExt      = ".mp3"
	eventsBuffer   = 64
)

// Resolver находит аудиопоток по URL
type Resolver interface {
	Resolve(ctx context.Context, url string) (source.Stream, error)
}

// Transcoder конвертирует файл внешним процессом
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// Tagger записывает теги в готовый файл по названию источника
type Tagger interface {
	Tag(path, sourceTitle string) error
}

// Mirror копирует готовый файл во внешнее хранилище и возвращает его URL
type Mirror interface {
	Mirror(ctx context.Context, filePath string) (string, error)
}

// Event результат одной загрузки. Либо Path, либо Err.
type Event struct {
	TaskID    string
	URL       string
	Path      string
	MirrorURL string
	Err       error
}

// OK сообщает, что трек готов
func (e Event) OK() bool {
	return e.Err == nil
}

// Options настройки сервиса
type Options struct {
	Dir     string // директория загрузок
	Workers int    // сколько загрузок выполняется одновременно
	Mirror  Mirror // необязательное зеркалирование готовых файлов
	Tagger  Tagger // необязательная запись тегов
}

// Service принимает URL и выполняет загрузки в фоне.
// Результаты публикуются в канал Events и применяются горутиной интерфейса.
type Service struct {
	ctx        context.Context
	resolver   Resolver
	transcoder Transcoder
	mirror     Mirror
	tagger     Tagger
	dir        string

	sem    *semaphore.Weighted
	events chan Event
	wg     sync.WaitGroup
}

// NewService создает сервис загрузок. ctx ограничивает время жизни фоновых задач процессом.
func NewService(ctx context.Context, resolver Resolver, transcoder Transcoder, opts Options) *Service {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		ctx:        ctx,
		resolver:   resolver,
		transcoder: transcoder,
		mirror:     opts.Mirror,
		tagger:     opts.Tagger,
		dir:        opts.Dir,
		sem:        semaphore.NewWeighted(int64(workers)),
		events:     make(chan Event, eventsBuffer),
	}
}

// Events возвращает канал результатов загрузок
func (s *Service) Events() <-chan Event {
	return s.events
}

// Submit ставит URL в очередь и сразу возвращает ID задачи.
// Пустой URL отклоняется синхронно. Одинаковые URL не объединяются.
func (s *Service) Submit(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", ErrValidation
	}

	taskID := uuid.NewString()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Ждем свободного обработчика, лишние задачи стоят в очереди
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			log.Printf("загрузка %s отменена: %v", url, err)
			return
		}
		defer s.sem.Release(1)

		event := s.run(taskID, url)
		select {
		case s.events <- event:
		case <-s.ctx.Done():
		}
	}()
	return taskID, nil
}

// Wait блокируется до завершения всех принятых задач
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(taskID, url string) Event {
	event := Event{TaskID: taskID, URL: url}

	path, err := s.Download(s.ctx, taskID, url)
	if err != nil {
		log.Printf("загрузка %s не удалась: %v", url, err)
		event.Err = err
		return event
	}
	event.Path = path

	if s.mirror != nil {
		mirrorURL, err := s.mirror.Mirror(s.ctx, path)
		if err != nil {
			log.Printf("не удалось скопировать %s в хранилище: %v", path, err)
		} else {
			event.MirrorURL = mirrorURL
		}
	}
	return event
}

// Download синхронно выполняет все шаги загрузки и возвращает путь к MP3 файлу.
// ffmpeg пишет во временный файл задачи, готовый файл переименовывается в итоговое имя.
func (s *Service) Download(ctx context.Context, taskID, url string) (string, error) {
	stream, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolution, err)
	}

	tempPath := filepath.Join(s.dir, tempFilePrefix+taskID)
	tempOutput := tempPath + outputExt
	defer func() {
		// Временные файлы удаляем без проверки результата
		for _, path := range []string{tempPath, tempOutput} {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Printf("не удалось удалить временный файл %s: %v", path, err)
			}
		}
	}()

	if err := s.transfer(ctx, stream, tempPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if err := s.transcoder.Transcode(ctx, tempPath, tempOutput); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscode, err)
	}

	// Трек без тегов все равно готов
	if s.tagger != nil {
		if err := s.tagger.Tag(tempOutput, stream.Title()); err != nil {
			log.Printf("не удалось записать теги в %s: %v", tempOutput, err)
		}
	}

	outputPath := filepath.Join(s.dir, utils.SanitizeFileName(stream.Title())+outputExt)
	if err := os.Rename(tempOutput, outputPath); err != nil {
		return "", fmt.Errorf("%w: ошибка сохранения файла: %w", ErrTransfer, err)
	}

	return outputPath, nil
}

// transfer копирует поток во временный файл
func (s *Service) transfer(ctx context.Context, stream source.Stream, tempPath string) error {
	rc, err := stream.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}

	if _, err := io.Copy(file, rc); err != nil {
		file.Close()
		return fmt.Errorf("ошибка записи потока: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}
