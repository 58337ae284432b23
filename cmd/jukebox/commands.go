package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jukebox",
		Short: "Download audio from YouTube or direct links and play it",
		Long: `A terminal jukebox: paste a YouTube or direct audio URL, get an MP3 in the
download directory and play it from an in-memory playlist.

Without a subcommand the interactive TUI is started.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx, false)
		},
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createDownloadCommand(ctx))
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createUploadCommand(ctx))

	return rootCmd
}
