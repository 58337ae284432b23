package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/utils"
)

// createUploadCommand создает команду upload с привязкой к экземпляру приложения
func (app *Application) createUploadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file path]",
		Short: "Upload an mp3 file to S3 storage",
		Long:  `Upload an mp3 file to the configured S3 bucket with progress tracking.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.upload(ctx, cmd, args[0])
		},
	}
}

func (app *Application) upload(ctx context.Context, cmd *cobra.Command, filePath string) error {
	service, err := app.newStorage()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📤 Загружаем файл в хранилище:\n")
	fmt.Fprintf(out, "   Файл: %s\n", filePath)
	fmt.Fprintf(out, "   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Fprintln(out)

	startTime := time.Now()
	var lastPrint time.Time
	progress := func(bytesRead int64) {
		// Не чаще десяти раз в секунду
		if time.Since(lastPrint) < 100*time.Millisecond {
			return
		}
		lastPrint = time.Now()

		elapsed := time.Since(startTime)
		speed := float64(bytesRead) / max(elapsed.Seconds(), 0.001)
		fmt.Fprintf(out, "\r📊 Загружено: %s | Скорость: %s/s | Прошло: %s",
			utils.FormatFileSize(bytesRead),
			utils.FormatFileSize(int64(speed)),
			utils.FormatDuration(elapsed))
	}

	result, err := service.UploadFile(ctx, filePath, progress)
	if err != nil {
		fmt.Fprintln(out)
		return err
	}

	fmt.Fprintf(out, "\n✅ Файл успешно загружен!\n")
	fmt.Fprintf(out, "   Трек: %s\n", result.Info.Label())
	fmt.Fprintf(out, "   Размер: %s\n", utils.FormatFileSize(result.Info.Size))
	if result.Info.Duration > 0 {
		fmt.Fprintf(out, "   Длительность: %s\n", utils.FormatDuration(result.Info.Duration))
	}
	fmt.Fprintf(out, "   URL: %s\n", result.URL)
	return nil
}
