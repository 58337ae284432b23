// Package app содержит основную логику TUI приложения
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-jukebox/internal/downloader"
	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/session"
	tuiPlayer "github.com/hazadus/go-jukebox/internal/tui/player"
	"github.com/hazadus/go-jukebox/internal/tui/prompt"
	"github.com/hazadus/go-jukebox/internal/tui/tracklist"
)

// Идентификаторы полей ввода
const (
	searchPrompt = "search"
	urlPrompt    = "url"
)

// tickInterval период обновления прогресса воспроизведения
const tickInterval = 250 * time.Millisecond

var (
	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	errorStatusStyle = statusStyle.Background(lipgloss.Color("160"))

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// DownloadEventMsg результат фоновой загрузки
type DownloadEventMsg struct {
	Event downloader.Event
}

// tickMsg запрос на обновление прогресса
type tickMsg time.Time

// TagReader читает теги трека для панели воспроизведения
type TagReader func(path string) metadata.Tags

// MainModel представляет главную модель TUI
type MainModel struct {
	session *session.Session
	events  <-chan downloader.Event
	tags    TagReader

	search    *prompt.Model
	url       *prompt.Model
	tracklist *tracklist.Model
	nowPlay   *tuiPlayer.Model

	// playingID трек, теги которого показаны на панели
	playingID string
	quitting  bool
}

// NewMainModel создает новую главную модель
func NewMainModel(s *session.Session, events <-chan downloader.Event, tags TagReader) *MainModel {
	if tags == nil {
		extractor := metadata.NewExtractor()
		tags = extractor.TagsFromFile
	}

	m := &MainModel{
		session:   s,
		events:    events,
		tags:      tags,
		search:    prompt.NewModel(searchPrompt, "Поиск:", "часть имени файла", false),
		url:       prompt.NewModel(urlPrompt, "URL:", "https://www.youtube.com/watch?v=...", true),
		tracklist: tracklist.NewModel(),
		nowPlay:   tuiPlayer.NewModel(),
	}
	m.refreshList()
	return m
}

// Init запускает чтение событий загрузок и таймер прогресса
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(m.listenForEvents(), tick())
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.search.SetWidth(msg.Width)
		m.url.SetWidth(msg.Width)
		m.nowPlay.SetWidth(msg.Width)
		// Поля ввода, панель плеера, статус и справка
		m.tracklist.SetSize(msg.Width, max(3, msg.Height-12))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.search.Focused() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			if m.search.Value() != m.session.Filter() {
				m.session.SetFilter(m.search.Value())
				m.refreshList()
			}
			return m, cmd
		}
		if m.url.Focused() {
			var cmd tea.Cmd
			m.url, cmd = m.url.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case prompt.SubmitMsg:
		if msg.ID == urlPrompt {
			m.session.Submit(msg.Value)
		}
		return m, nil

	case prompt.CancelMsg:
		return m, nil

	case tracklist.TrackSelectedMsg:
		m.session.PlayIndex(msg.Index)
		return m, m.syncPlayer()

	case DownloadEventMsg:
		m.session.HandleEvent(msg.Event)
		m.refreshList()
		return m, m.listenForEvents()

	case tickMsg:
		return m, tea.Batch(m.updateProgress(), tick())

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.nowPlay, cmd = m.nowPlay.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.tracklist, cmd = m.tracklist.Update(msg)
	return m, cmd
}

// handleKey обрабатывает горячие клавиши, когда поля ввода не в фокусе
func (m *MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "/":
		return m, m.search.Focus()

	case "a":
		return m, m.url.Focus()

	case "esc":
		if m.session.Filter() != "" {
			m.search.Reset()
			m.session.SetFilter("")
			m.refreshList()
		}
		return m, nil

	case " ":
		m.session.TogglePlayPause()
		return m, m.syncPlayer()

	case "n":
		m.session.Next()
		return m, m.syncPlayer()

	case "p":
		m.session.Previous()
		return m, m.syncPlayer()

	case "s":
		m.session.Shuffle()
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.tracklist, cmd = m.tracklist.Update(msg)
	return m, cmd
}

func (m *MainModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.Close()
	return m, tea.Quit
}

// syncPlayer обновляет панель после смены трека.
// Трек сравнивается по ID, индекс меняется при перемешивании.
func (m *MainModel) syncPlayer() tea.Cmd {
	controller := m.session.Player()
	t, ok := controller.Current()

	if controller.Handle() == nil || !ok {
		m.playingID = ""
		m.nowPlay.Clear()
	} else if t.ID != m.playingID {
		m.playingID = t.ID
		m.nowPlay.SetTrack(m.tags(t.Path))
	}
	m.refreshList()
	return m.updateProgress()
}

// updateProgress переносит позицию воспроизведения на панель
func (m *MainModel) updateProgress() tea.Cmd {
	controller := m.session.Player()
	handle := controller.Handle()
	if handle == nil {
		return nil
	}
	current, total := handle.Position()
	return m.nowPlay.SetPosition(controller.State(), current, total)
}

func (m *MainModel) refreshList() {
	m.tracklist.Refresh(m.session.Visible(), m.session.Player().CurrentIndex())
}

// listenForEvents ждет следующий результат загрузки
func (m *MainModel) listenForEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return DownloadEventMsg{Event: event}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View отображает интерфейс
func (m *MainModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.url.View())
	b.WriteString("\n\n")
	b.WriteString(m.tracklist.View())
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.nowPlay.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/: поиск • a: добавить URL • enter: играть • пробел: пауза • n/p: след./пред. • s: перемешать • q: выход"))
	return b.String()
}

func (m *MainModel) statusLine() string {
	status := m.session.Status()
	style := statusStyle
	if strings.HasPrefix(status, "Error: ") || status == session.StatusCannotPlay {
		style = errorStatusStyle
	}

	line := style.Render(status)
	if pending := m.session.Pending(); pending > 0 {
		line += pendingStyle.Render(pendingText(pending))
	}
	return line
}

func pendingText(n int) string {
	return fmt.Sprintf("загрузок в процессе: %d", n)
}
