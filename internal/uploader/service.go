// Package uploader загружает скачанные треки во внешнее хранилище
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hazadus/go-jukebox/internal/metadata"
)

// Storage хранилище объектов, например S3
type Storage interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
}

// Service управляет процессом загрузки файлов
type Service struct {
	storage   Storage
	extractor *metadata.Extractor
}

// NewService создает новый сервис загрузки
func NewService(storage Storage) *Service {
	return &Service{
		storage:   storage,
		extractor: metadata.NewExtractor(),
	}
}

// UploadResult содержит результат загрузки
type UploadResult struct {
	URL  string
	Key  string
	Info metadata.Info
}

// UploadFile загружает файл, сообщая о прогрессе через progressCallback
func (s *Service) UploadFile(ctx context.Context, filePath string, progressCallback func(int64)) (*UploadResult, error) {
	info, err := s.extractor.Read(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("файл не найден: %s", filePath)
		}
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       info.Size,
			OnProgress: progressCallback,
		}
	}

	key := filepath.Base(filePath)
	url, err := s.storage.UploadFile(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в хранилище: %w", err)
	}

	return &UploadResult{URL: url, Key: key, Info: info}, nil
}

// Mirror копирует готовый трек в хранилище без отображения прогресса
func (s *Service) Mirror(ctx context.Context, filePath string) (string, error) {
	result, err := s.UploadFile(ctx, filePath, nil)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

// Percent доля прочитанного от 0 до 100
func (pr *ProgressReader) Percent() float64 {
	if pr.Size <= 0 {
		return 0
	}
	return float64(pr.bytesRead) / float64(pr.Size) * 100
}
