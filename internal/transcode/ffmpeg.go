// Package transcode конвертирует скачанные потоки в MP3 внешним процессом ffmpeg
package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Параметры ffmpeg
const (
	FFmpegCommand = "ffmpeg"
	AudioCodec    = "libmp3lame"
	LogLevel      = "error"
)

// maxOutputTail сколько символов вывода ffmpeg попадает в ошибку
const maxOutputTail = 300

// FFmpeg запускает ffmpeg для конвертации файла
type FFmpeg struct {
	Path    string // путь к исполняемому файлу, по умолчанию ffmpeg из PATH
	Bitrate string // битрейт аудио, например 192k; пустой оставляет выбор ffmpeg
}

// NewFFmpeg создает транскодер
func NewFFmpeg(path, bitrate string) *FFmpeg {
	if path == "" {
		path = FFmpegCommand
	}
	return &FFmpeg{Path: path, Bitrate: bitrate}
}

// BuildArgs формирует аргументы командной строки
func (f *FFmpeg) BuildArgs(inputPath, outputPath string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", LogLevel,
		"-i", inputPath,
		"-vn",
		"-codec:a", AudioCodec,
	}
	if f.Bitrate != "" {
		args = append(args, "-b:a", f.Bitrate)
	}
	return append(args, outputPath)
}

// Transcode конвертирует inputPath в outputPath и проверяет код завершения процесса
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.Path, f.BuildArgs(inputPath, outputPath)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("ffmpeg не найден (%s): %w", f.Path, err)
		case errors.As(err, &exitErr):
			return fmt.Errorf("ffmpeg завершился с кодом %d: %s", exitErr.ExitCode(), tail(output))
		default:
			return fmt.Errorf("ошибка запуска ffmpeg: %w", err)
		}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg не создал выходной файл: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg создал пустой файл: %s", outputPath)
	}
	return nil
}

// tail возвращает конец вывода процесса одной строкой
func tail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if s == "" {
		return "нет вывода"
	}
	if len(s) > maxOutputTail {
		s = "..." + s[len(s)-maxOutputTail:]
	}
	return strings.ReplaceAll(s, "\n", " | ")
}
