package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List downloaded tracks",
		Long:  `Display MP3 files from the download directory with their tags, duration and size.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.listTracks(cmd)
		},
	}
}

// libraryFiles возвращает MP3 файлы директории загрузок, отсортированные по имени
func (app *Application) libraryFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(app.Config.DownloadDir, "*.mp3"))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории загрузок: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

func (app *Application) listTracks(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	files, err := app.libraryFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "📚 Библиотека пуста. Скачайте треки с помощью команды 'download'.")
		return nil
	}

	fmt.Fprintf(out, "📚 Найдено треков: %d\n\n", len(files))

	// Выводим заголовок таблицы
	fmt.Fprintf(out, "%-4s %-30s %-30s %-20s %-12s %-10s\n",
		"№", "Исполнитель", "Название", "Альбом", "Длительность", "Размер")
	fmt.Fprintln(out, strings.Repeat("-", 112))

	extractor := metadata.NewExtractor()
	for i, file := range files {
		info, err := extractor.Read(file)
		if err != nil {
			fmt.Fprintf(out, "%-4d %s: %v\n", i+1, filepath.Base(file), err)
			continue
		}

		duration := "N/A"
		if info.Duration > 0 {
			duration = utils.FormatDuration(info.Duration)
		}

		fmt.Fprintf(out, "%-4d %-30s %-30s %-20s %-12s %-10s\n",
			i+1,
			utils.TruncateString(info.Artist, 28),
			utils.TruncateString(info.Title, 28),
			utils.TruncateString(info.Album, 18),
			duration,
			utils.FormatFileSize(info.Size))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "💡 Используйте 'jukebox play [файл...]' или 'jukebox tui --scan' для воспроизведения")
	return nil
}
