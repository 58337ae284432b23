package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/session"
	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "play [file...]",
		Short: "Play local mp3 files as a playlist",
		Long:  `Play local mp3 files in the terminal. Without arguments all tracks from the download directory are played.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				var err error
				if files, err = app.libraryFiles(); err != nil {
					return err
				}
			}
			tracks, err := newPlaylist(files)
			if err != nil {
				return err
			}
			return playTracks(ctx, cmd.OutOrStdout(), tracks, player.NewSpeaker(), shuffle)
		},
	}
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the playlist before playing")

	return cmd
}

// newPlaylist проверяет файлы и собирает из них плейлист
func newPlaylist(files []string) (*track.Manager, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("нет треков для воспроизведения")
	}

	tracks := track.NewManager()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("файл не найден: %s", f)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s является директорией", f)
		}
		tracks.Append(track.New(f))
	}
	return tracks, nil
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Без stty управление работает после Enter
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readKeys читает одиночные символы из stdin.
// Горутина остается заблокированной в Read до выхода из процесса.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buffer := make([]byte, 1)
		for {
			if _, err := r.Read(buffer); err != nil {
				return
			}
			keys <- buffer[0]
		}
	}()
	return keys
}

func playTracks(ctx context.Context, out io.Writer, tracks *track.Manager, engine player.Engine, shuffle bool) error {
	controller := playback.NewController(tracks, engine)
	s := session.New(tracks, controller, nil)
	defer s.Close()

	if shuffle {
		s.Shuffle()
	}

	fmt.Fprintf(out, "🎵 Треков в плейлисте: %d\n", tracks.Len())
	fmt.Fprintf(out, "🎮 Управление:\n")
	fmt.Fprintf(out, "   [Пробел] - пауза/воспроизведение\n")
	fmt.Fprintf(out, "   [n/p]    - следующий/предыдущий трек\n")
	fmt.Fprintf(out, "   [s]      - перемешать\n")
	fmt.Fprintf(out, "   [q]      - выход\n")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s\n", s.TogglePlayPause())

	enableRawMode()
	defer disableRawMode()
	keys := readKeys(os.Stdin)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if quit := handlePlayKey(out, s, key); quit {
				fmt.Fprintln(out, "\n⏹️  Воспроизведение остановлено")
				return nil
			}

		case <-ticker.C:
			if done := advance(out, s); done {
				fmt.Fprintln(out, "\n✅ Воспроизведение завершено")
				return nil
			}

		case <-ctx.Done():
			fmt.Fprintln(out, "\n🚫 Операция отменена")
			return nil
		}
	}
}

// advance выводит позицию или переходит к следующему треку, когда текущий
// доигран или не загрузился. Возвращает true после последнего трека.
func advance(out io.Writer, s *session.Session) bool {
	controller := s.Player()
	handle := controller.Handle()
	index := controller.CurrentIndex()

	switch {
	case handle != nil && !handle.Finished():
		current, total := handle.Position()
		fmt.Fprintf(out, "\r⏱️  %s / %s", utils.FormatDuration(current), utils.FormatDuration(total))
		return false
	case handle == nil && index == -1:
		return false
	case index >= s.Tracks().Len()-1:
		return true
	}

	fmt.Fprintf(out, "\n%s\n", s.Next())
	return false
}

// handlePlayKey применяет нажатую клавишу, возвращает true для выхода
func handlePlayKey(out io.Writer, s *session.Session, key byte) bool {
	var status string
	switch key {
	case ' ', '\n', '\r':
		status = s.TogglePlayPause()
	case 'n':
		status = s.Next()
	case 'p':
		status = s.Previous()
	case 's':
		status = s.Shuffle()
	case 'q':
		return true
	default:
		return false
	}
	fmt.Fprintf(out, "\r\033[K%s\n", status)
	return false
}
