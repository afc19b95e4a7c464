package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// commandHint lists the commands the palette understands. Command names
// themselves are not localized.
const commandHint = "records <resource> · feed · history · import · " +
	"workspaces · locale en|es · refresh · quit"

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	locale string
	width  int
	height int
}

// New creates a new command palette model.
func New(locale string, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = i18n.T(locale, "command.placeholder")
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		locale: locale,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
	m.input.Placeholder = i18n.T(locale, "command.placeholder")
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		MarginTop(1)

	title := titleStyle.Render(i18n.T(m.locale, "command.title"))
	input := m.input.View()
	hint := hintStyle.Render(commandHint)

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, hint)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
