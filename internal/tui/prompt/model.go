// Package prompt содержит однострочное поле ввода для строки поиска и URL
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(8)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SubmitMsg отправляется по Enter
type SubmitMsg struct {
	ID    string
	Value string
}

// CancelMsg отправляется по Esc
type CancelMsg struct {
	ID string
}

// Model поле ввода с подписью
type Model struct {
	id    string
	label string
	input textinput.Model
	// clearOnSubmit очищает поле после Enter
	clearOnSubmit bool
}

// NewModel создает поле ввода
func NewModel(id, label, placeholder string, clearOnSubmit bool) *Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.PromptStyle = blurredStyle
	input.TextStyle = blurredStyle

	return &Model{
		id:            id,
		label:         label,
		input:         input,
		clearOnSubmit: clearOnSubmit,
	}
}

// ID идентификатор поля
func (m *Model) ID() string { return m.id }

// Value текущий текст
func (m *Model) Value() string { return m.input.Value() }

// Reset очищает поле
func (m *Model) Reset() {
	m.input.SetValue("")
}

// Focused сообщает, принимает ли поле ввод
func (m *Model) Focused() bool { return m.input.Focused() }

// Focus передает фокус полю
func (m *Model) Focus() tea.Cmd {
	m.input.PromptStyle = focusedStyle
	m.input.TextStyle = focusedStyle
	return m.input.Focus()
}

// Blur снимает фокус
func (m *Model) Blur() {
	m.input.Blur()
	m.input.PromptStyle = blurredStyle
	m.input.TextStyle = blurredStyle
}

// SetWidth задает ширину поля
func (m *Model) SetWidth(width int) {
	m.input.Width = max(10, width-lipgloss.Width(labelStyle.Render(m.label))-4)
}

// Update обрабатывает нажатия, пока поле в фокусе
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if m.clearOnSubmit {
				m.input.SetValue("")
			}
			m.Blur()
			id := m.id
			return m, func() tea.Msg {
				return SubmitMsg{ID: id, Value: value}
			}

		case "esc":
			m.Blur()
			id := m.id
			return m, func() tea.Msg {
				return CancelMsg{ID: id}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View отображает поле
func (m *Model) View() string {
	return labelStyle.Render(m.label) + " " + m.input.View()
}
