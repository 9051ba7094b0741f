package message

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/webmail/internal/format"
	"github.com/nhle/webmail/internal/keys"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/theme"
)

// Action is an operation offered on an open email.
type Action string

const (
	ActionReply     Action = "reply"
	ActionArchive   Action = "archive"
	ActionUnarchive Action = "unarchive"
)

// Actions returns the actions available for an email opened from mb.
// Sent mail can only be replied to.
func Actions(mb model.Mailbox) []Action {
	switch mb {
	case model.MailboxInbox:
		return []Action{ActionReply, ActionArchive}
	case model.MailboxArchive:
		return []Action{ActionReply, ActionUnarchive}
	default:
		return []Action{ActionReply}
	}
}

// BackMsg signals the parent to return to the mailbox list.
type BackMsg struct{}

// ReplyMsg asks the parent to open the compose panel prefilled for a reply.
type ReplyMsg struct {
	Email model.Email
}

// ArchiveMsg asks the parent to set the archived flag of an email.
type ArchiveMsg struct {
	ID       int
	Archived bool
}

// ExportMsg asks the parent to save the open email as an .eml file.
type ExportMsg struct {
	Email model.Email
}

// Model is the single-email panel.
type Model struct {
	email    *model.Email
	mailbox  model.Mailbox
	viewport viewport.Model
	keys     *keys.KeyMap
	loading  bool
	err      error
	width    int
	height   int
}

// New creates a new message view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetLoading clears the panel while an email opened from mb is fetched.
func (m *Model) SetLoading(mb model.Mailbox) {
	m.email = nil
	m.mailbox = mb
	m.loading = true
	m.err = nil
	m.viewport.SetContent("")
}

// SetEmail shows e.
func (m *Model) SetEmail(e model.Email) {
	m.email = &e
	m.loading = false
	m.err = nil
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetError records a failed fetch.
func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

// Email returns the email shown, if any.
func (m Model) Email() (model.Email, bool) {
	if m.email == nil {
		return model.Email{}, false
	}
	return *m.email, true
}

// Mailbox returns the mailbox the email was opened from.
func (m Model) Mailbox() model.Mailbox {
	return m.mailbox
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the message view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(keyMsg, m.keys.Reply):
			if m.email != nil && m.offers(ActionReply) {
				e := *m.email
				return m, func() tea.Msg { return ReplyMsg{Email: e} }
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.ToggleArchive):
			if m.email == nil {
				return m, nil
			}
			id := m.email.ID
			switch {
			case m.offers(ActionArchive):
				return m, func() tea.Msg { return ArchiveMsg{ID: id, Archived: true} }
			case m.offers(ActionUnarchive):
				return m, func() tea.Msg { return ArchiveMsg{ID: id, Archived: false} }
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Export):
			if m.email != nil {
				e := *m.email
				return m, func() tea.Msg { return ExportMsg{Email: e} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) offers(a Action) bool {
	for _, candidate := range Actions(m.mailbox) {
		if candidate == a {
			return true
		}
	}
	return false
}

// View renders the message view.
func (m Model) View() string {
	centered := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return centered.Render("Loading email...")
	case m.err != nil:
		return centered.Render("Could not load email.")
	case m.email == nil:
		return centered.Render("No email selected")
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderActions(), m.viewport.View())
}

func (m Model) renderActions() string {
	labels := map[Action]string{
		ActionReply:     "r Reply",
		ActionArchive:   "a Archive",
		ActionUnarchive: "a Unarchive",
	}

	var parts []string
	for _, a := range Actions(m.mailbox) {
		parts = append(parts, theme.ActionStyle.Render(labels[a]))
	}
	parts = append(parts, theme.ActionStyle.Render("e Export"))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderContent builds the header block and body for the viewport.
func (m Model) renderContent() string {
	e := m.email
	var b strings.Builder

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", theme.LabelStyle.Render(label+":"), value)
	}
	field("From", e.Sender)
	field("To", e.RecipientList())
	field("Subject", e.Subject)
	field("Timestamp", e.Timestamp)

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(max(m.width-2, 10)).
		Render(format.BodyText(e.Body)))

	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	if m.email != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
