package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createDownloadCommand создает команду download с привязкой к экземпляру приложения
func (app *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "download [URL]",
		Short: "Download audio from a YouTube video or a direct link as MP3",
		Long:  `Download audio and convert it to an MP3 file in the configured download directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.download(ctx, cmd, args[0])
		},
	}
}

func (app *Application) download(ctx context.Context, cmd *cobra.Command, url string) error {
	service, err := app.newDownloader(ctx)
	if err != nil {
		return err
	}

	taskID, err := service.Submit(url)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "⬇️  Скачиваем: %s\n", url)
	fmt.Fprintf(out, "   Директория: %s\n", app.Config.DownloadDir)

	select {
	case event := <-service.Events():
		if event.TaskID != taskID {
			return fmt.Errorf("получен результат чужой задачи %s", event.TaskID)
		}
		if !event.OK() {
			return event.Err
		}
		fmt.Fprintf(out, "✅ Трек сохранен: %s\n", event.Path)
		if event.MirrorURL != "" {
			fmt.Fprintf(out, "   Копия в хранилище: %s\n", event.MirrorURL)
		}
		return nil

	case <-ctx.Done():
		fmt.Fprintln(out, "🚫 Операция отменена")
		return ctx.Err()
	}
}
