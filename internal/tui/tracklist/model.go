// Package tracklist содержит модель списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-jukebox/internal/session"
	"github.com/hazadus/go-jukebox/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentItemStyle  = lipgloss.NewStyle().Bold(true)
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
)

// nameWidth ширина колонки с именем файла
const nameWidth = 60

// TrackSelectedMsg отправляется при выборе трека. Index это позиция в плейлисте.
type TrackSelectedMsg struct {
	Index int
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	entry   session.Entry
	current bool
}

func (i trackItem) FilterValue() string {
	return i.entry.Track.DisplayName()
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	marker := " "
	if i.current {
		marker = "♪"
	}
	str := fmt.Sprintf("%s %-4d %s", marker, i.entry.Index+1, utils.TruncateString(i.entry.Track.DisplayName(), nameWidth))
	if i.current {
		str = currentItemStyle.Render(str)
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model модель списка треков
type Model struct {
	list list.Model
}

// NewModel создает пустой список
func NewModel() *Model {
	l := list.New(nil, trackItemDelegate{}, 0, 0)
	l.Title = "Плейлист"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	// Фильтрация выполняется плейлистом, встроенный фильтр списка выключен
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle

	return &Model{list: l}
}

// Refresh заменяет элементы списка, current это индекс играющего трека в плейлисте
func (m *Model) Refresh(entries []session.Entry, current int) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = trackItem{entry: e, current: e.Index == current}
	}
	m.list.SetItems(items)
}

// Len количество видимых треков
func (m *Model) Len() int {
	return len(m.list.Items())
}

// Selected возвращает индекс выделенного трека в плейлисте
func (m *Model) Selected() (int, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return 0, false
	}
	return item.entry.Index, true
}

// SetSize задает размеры списка
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Update обрабатывает навигацию и выбор
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		index, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return TrackSelectedMsg{Index: index}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает список
func (m *Model) View() string {
	return m.list.View()
}
