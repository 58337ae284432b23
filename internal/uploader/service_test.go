package uploader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MockStorage мок для хранилища
type MockStorage struct {
	uploadFunc func(ctx context.Context, reader io.Reader, key string) (string, error)
}

func (m *MockStorage) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	return m.uploadFunc(ctx, reader, key)
}

func createTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

func TestUploadFileSuccess(t *testing.T) {
	path := createTestFile(t, "Artist - Song.mp3", "fake mp3 content")

	var gotKey string
	storage := &MockStorage{
		uploadFunc: func(_ context.Context, reader io.Reader, key string) (string, error) {
			gotKey = key
			if _, err := io.ReadAll(reader); err != nil {
				t.Errorf("Ошибка чтения: %v", err)
			}
			return "https://storage.example.com/music/" + key, nil
		},
	}

	var lastProgress int64
	result, err := NewService(storage).UploadFile(context.Background(), path, func(n int64) {
		lastProgress = n
	})
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if gotKey != "Artist - Song.mp3" {
		t.Errorf("Неожиданный ключ: %s", gotKey)
	}
	if result.URL != "https://storage.example.com/music/Artist - Song.mp3" {
		t.Errorf("Неожиданный URL: %s", result.URL)
	}
	if result.Info.Artist != "Artist" || result.Info.Title != "Song" {
		t.Errorf("Неожиданные метаданные: %+v", result.Info.Tags)
	}
	if lastProgress != int64(len("fake mp3 content")) {
		t.Errorf("Прогресс должен дойти до размера файла, получено %d", lastProgress)
	}
}

func TestUploadFileNotFound(t *testing.T) {
	storage := &MockStorage{
		uploadFunc: func(context.Context, io.Reader, string) (string, error) {
			t.Error("Хранилище не должно вызываться")
			return "", nil
		},
	}

	_, err := NewService(storage).UploadFile(context.Background(), "/non/existent.mp3", nil)
	if err == nil || !strings.Contains(err.Error(), "файл не найден") {
		t.Errorf("Неожиданная ошибка: %v", err)
	}
}

func TestUploadFileStorageError(t *testing.T) {
	path := createTestFile(t, "song.mp3", "data")
	storageErr := errors.New("нет доступа")
	storage := &MockStorage{
		uploadFunc: func(context.Context, io.Reader, string) (string, error) {
			return "", storageErr
		},
	}

	_, err := NewService(storage).UploadFile(context.Background(), path, nil)
	if !errors.Is(err, storageErr) {
		t.Errorf("Ошибка хранилища должна сохраняться в цепочке: %v", err)
	}
	if !strings.Contains(err.Error(), "ошибка загрузки в хранилище") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestMirror(t *testing.T) {
	path := createTestFile(t, "song.mp3", "data")
	storage := &MockStorage{
		uploadFunc: func(_ context.Context, reader io.Reader, key string) (string, error) {
			if _, ok := reader.(*ProgressReader); ok {
				t.Error("Зеркалирование не должно отслеживать прогресс")
			}
			return "s3://music/" + key, nil
		},
	}

	url, err := NewService(storage).Mirror(context.Background(), path)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if url != "s3://music/song.mp3" {
		t.Errorf("Неожиданный URL: %s", url)
	}
}

func TestProgressReader(t *testing.T) {
	var calls []int64
	pr := &ProgressReader{
		Reader:     strings.NewReader("0123456789"),
		Size:       10,
		OnProgress: func(n int64) { calls = append(calls, n) },
	}

	buf := make([]byte, 4)
	if _, err := pr.Read(buf); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if pr.Percent() != 40 {
		t.Errorf("Ожидалось 40%%, получено %.1f", pr.Percent())
	}

	if _, err := io.ReadAll(pr); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if calls[len(calls)-1] != 10 {
		t.Errorf("Последний вызов должен сообщить 10 байт, получено %d", calls[len(calls)-1])
	}
	if pr.Percent() != 100 {
		t.Errorf("Ожидалось 100%%, получено %.1f", pr.Percent())
	}

	empty := &ProgressReader{Reader: strings.NewReader("")}
	if empty.Percent() != 0 {
		t.Error("Для неизвестного размера прогресс равен 0")
	}
}
