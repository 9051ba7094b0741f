package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/webmail/internal/theme"
)

// Command names understood by the palette.
const (
	Inbox    = "inbox"
	Sent     = "sent"
	Archive  = "archive"
	Compose  = "compose"
	Refresh  = "refresh"
	Export   = "export"
	Settings = "settings"
	Quit     = "quit"
)

// Names lists every palette command, used for tab completion.
var Names = []string{Inbox, Sent, Archive, Compose, Refresh, Export, Settings, Quit}

// aliases maps shorthand input to a command name.
var aliases = map[string]string{
	"archived": Archive,
	"new":      Compose,
	"sync":     Refresh,
	"config":   Settings,
	"q":        Quit,
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CloseMsg is emitted when the palette is dismissed without a command.
type CloseMsg struct{}

// Normalize lowercases input and resolves aliases.
func Normalize(input string) string {
	name := strings.ToLower(strings.TrimSpace(input))
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names)
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			cmd := Normalize(m.input.Value())
			m.input.Reset()
			if cmd == "" {
				return m, func() tea.Msg { return CloseMsg{} }
			}
			return m, func() tea.Msg { return CommandMsg(cmd) }

		case tea.KeyEsc:
			m.input.Reset()
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Command Palette")
	hint := theme.HelpStyle.Render(strings.Join(Names, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), "", hint)

	return theme.PanelStyle.
		Width(max(m.width-4, 20)).
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
	m.input.Reset()
	return m.input.Focus()
}
