package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/session"
	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for downloading and playing tracks.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx, scan)
		},
	}
	cmd.Flags().BoolVarP(&scan, "scan", "s", false, "add mp3 files from the download directory to the playlist")

	return cmd
}

func (app *Application) launchTUI(ctx context.Context, scan bool) error {
	downloads, err := app.newDownloader(ctx)
	if err != nil {
		return err
	}

	tracks := track.NewManager()
	if scan {
		files, err := app.libraryFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			tracks.Append(track.New(f))
		}
	}

	controller := playback.NewController(tracks, player.NewSpeaker())
	s := session.New(tracks, controller, downloads)

	return tui.NewApp(s, downloads.Events()).Run()
}
