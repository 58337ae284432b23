// Package tui содержит текстовый интерфейс плеера
package tui

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/downloader"
	"github.com/hazadus/go-jukebox/internal/session"
	"github.com/hazadus/go-jukebox/internal/tui/app"
)

// DebugEnv переменная окружения с путем к файлу журнала
const DebugEnv = "JUKEBOX_DEBUG"

// App представляет основное TUI приложение
type App struct {
	session *session.Session
	events  <-chan downloader.Event
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(s *session.Session, events <-chan downloader.Event) *App {
	return &App{
		session: s,
		events:  events,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	// Журнал не должен портить экран
	if path := os.Getenv(DebugEnv); path != "" {
		f, err := tea.LogToFile(path, "jukebox")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	model := app.NewMainModel(tuiApp.session, tuiApp.events, nil)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()

	// Останавливаем воспроизведение после завершения программы
	tuiApp.session.Close()

	return err
}
