// Package player содержит панель текущего трека для TUI
package player

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5f5fff"))

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	stateStyle = lipgloss.NewStyle().
			Bold(true)
)

// maxBarWidth предельная ширина прогресс-бара
const maxBarWidth = 60

// Model панель текущего трека: теги, состояние и прогресс
type Model struct {
	tags        metadata.Tags
	hasTrack    bool
	state       playback.State
	current     time.Duration
	total       time.Duration
	progressBar progress.Model
}

// NewModel создает панель без трека
func NewModel() *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{progressBar: prog}
}

// SetTrack задает теги играющего трека
func (m *Model) SetTrack(tags metadata.Tags) {
	m.tags = tags
	m.hasTrack = true
}

// Clear убирает трек с панели
func (m *Model) Clear() {
	m.tags = metadata.Tags{}
	m.hasTrack = false
	m.state = playback.Idle
	m.current, m.total = 0, 0
}

// SetWidth подгоняет ширину прогресс-бара
func (m *Model) SetWidth(width int) {
	m.progressBar.Width = max(10, min(maxBarWidth, width-20))
}

// SetPosition обновляет состояние и позицию, возвращает команду анимации прогресс-бара
func (m *Model) SetPosition(state playback.State, current, total time.Duration) tea.Cmd {
	m.state = state
	m.current = current
	m.total = total
	return m.progressBar.SetPercent(m.Percent())
}

// Percent доля проигранного от 0 до 1
func (m *Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(1, float64(m.current)/float64(m.total))
}

// Update обрабатывает кадры анимации прогресс-бара
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if frame, ok := msg.(progress.FrameMsg); ok {
		progressModel, cmd := m.progressBar.Update(frame)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View отображает панель
func (m *Model) View() string {
	if !m.hasTrack {
		return trackInfoStyle.Render("Ничего не играет")
	}

	info := trackInfoStyle.Render(fmt.Sprintf("%s\n%s", m.tags.Label(), m.tags.Album))
	timeText := fmt.Sprintf("%s / %s", utils.FormatDuration(m.current), utils.FormatDuration(m.total))

	return fmt.Sprintf(
		"%s %s\n%s\n%s %s",
		stateStyle.Render(stateIcon(m.state)),
		titleStyle.Render(m.tags.Title),
		info,
		m.progressBar.View(),
		timeText,
	)
}

func stateIcon(state playback.State) string {
	switch state {
	case playback.Playing:
		return "▶"
	case playback.Paused:
		return "⏸"
	default:
		return "■"
	}
}
